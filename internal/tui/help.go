package tui

import "fmt"

// PrintHelp writes the top-level CLI usage.
func PrintHelp() {
	fmt.Println(StyleTitle("whitesource-plugin") + " — open source policy compliance publisher for CI builds")
	fmt.Println()
	fmt.Println("Usage: whitesource-plugin <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run        Run the post-build pipeline: collect inventory, check policies, update service")
	fmt.Println("  check      Check policies only; never updates the service inventory")
	fmt.Println("  validate   Validate global and job configuration without network calls")
	fmt.Println("  setup      Interactive wizard for the global configuration")
	fmt.Println("  watch      Re-run the policy check when workspace SBOMs change")
	fmt.Println("  version    Print version information")
	fmt.Println("  completion Generate shell completion script (bash|zsh|fish|powershell)")
	fmt.Println("  help       Show this help")
	fmt.Println()
	fmt.Println("Common flags for run/check/watch:")
	fmt.Println("  --global-config PATH   Global config file (default whitesource.yml)")
	fmt.Println("  --job-config PATH      Job config file (default whitesource-job.yml)")
	fmt.Println("  --workspace DIR        Build workspace to scan (default .)")
	fmt.Println("  --build-kind KIND      multi-module | generic (default multi-module)")
	fmt.Println("  --project NAME         Project display name")
	fmt.Println("  --build-number N       Host build number")
	fmt.Println("  --prior-result RESULT  success | failure (default success)")
	fmt.Println("  --report-dir DIR       Destination for the policy check report")
	fmt.Println("  --json                 Structured JSON output")
	fmt.Println("  --quiet, -q            Suppress transcript output")
}
