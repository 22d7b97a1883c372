// Package main implements the whitesource-plugin CLI, a post-build publisher
// that reports a build's open source inventory to the White Source service.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/DecoyJoe/whitesource-plugin/cmd"
	"github.com/DecoyJoe/whitesource-plugin/internal/core"
	"github.com/DecoyJoe/whitesource-plugin/internal/tui"
	"github.com/DecoyJoe/whitesource-plugin/internal/types"
	"github.com/DecoyJoe/whitesource-plugin/internal/version"
)

// Version information is managed in internal/version package
// GoReleaser injects version info directly via ldflags

// pipelineFlags holds the flags shared by the run/check/validate/watch commands.
type pipelineFlags struct {
	GlobalConfig string
	JobConfig    string
	Workspace    string
	BuildKind    string
	Project      string
	BuildNumber  int
	PriorResult  string
	ReportDir    string
	JSON         bool
	Quiet        bool
}

// parsePipelineFlags extracts pipeline flags from args.
// Returns: flags, remainingArgs, error for a flag missing its value.
func parsePipelineFlags(args []string) (pipelineFlags, []string, error) {
	flags := pipelineFlags{
		GlobalConfig: core.GlobalConfigName,
		JobConfig:    core.JobConfigName,
		Workspace:    ".",
		BuildKind:    string(types.BuildKindMultiModule),
		PriorResult:  "success",
	}
	var remaining []string

	value := func(i int) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", args[i])
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--global-config":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.GlobalConfig = v
			i++
		case "--job-config":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.JobConfig = v
			i++
		case "--workspace":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.Workspace = v
			i++
		case "--build-kind":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.BuildKind = v
			i++
		case "--project":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.Project = v
			i++
		case "--build-number":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			n, convErr := strconv.Atoi(v)
			if convErr != nil {
				return flags, nil, fmt.Errorf("--build-number must be an integer, got %q", v)
			}
			flags.BuildNumber = n
			i++
		case "--prior-result":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			if v != "success" && v != "failure" {
				return flags, nil, fmt.Errorf("--prior-result must be success or failure, got %q", v)
			}
			flags.PriorResult = v
			i++
		case "--report-dir":
			v, err := value(i)
			if err != nil {
				return flags, nil, err
			}
			flags.ReportDir = v
			i++
		case "--json":
			flags.JSON = true
		case "--quiet", "-q":
			flags.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return flags, remaining, nil
}

// buildLogFor selects the transcript sink for a run. JSON mode keeps stdout
// reserved for the structured response.
func buildLogFor(flags pipelineFlags) core.BuildLog {
	switch {
	case flags.Quiet:
		return core.SilentBuildLog{}
	case flags.JSON:
		return core.NewWriterBuildLog(os.Stderr, os.Stderr)
	case tui.IsInteractive():
		return tui.NewStyledBuildLog()
	default:
		return core.NewWriterBuildLog(os.Stdout, os.Stderr)
	}
}

// buildContextFor assembles the host build description from CLI flags.
func buildContextFor(flags pipelineFlags) types.BuildContext {
	reportDir := flags.ReportDir
	if reportDir == "" {
		reportDir = flags.Workspace
	}
	project := flags.Project
	if project == "" {
		project = "build"
	}
	return types.BuildContext{
		PriorSucceeded: flags.PriorResult != "failure",
		Kind:           types.BuildKind(flags.BuildKind),
		ProjectName:    project,
		BuildNumber:    flags.BuildNumber,
		WorkspaceDir:   flags.Workspace,
		ReportDir:      reportDir,
	}
}

// loadConfigs reads the layered configuration. A missing file is an empty
// layer, not an error.
func loadConfigs(flags pipelineFlags) (types.GlobalConfig, types.JobConfig, error) {
	global, err := core.NewFileGlobalConfigStore(flags.GlobalConfig).Load()
	if err != nil {
		return types.GlobalConfig{}, types.JobConfig{}, fmt.Errorf("global config: %w", err)
	}
	job, err := core.NewFileJobConfigStore(flags.JobConfig).Load()
	if err != nil {
		return types.GlobalConfig{}, types.JobConfig{}, fmt.Errorf("job config: %w", err)
	}
	return global, job, nil
}

// runPipeline executes the run or check command and returns the process exit code.
func runPipeline(flags pipelineFlags, checkOnly bool) int {
	global, job, err := loadConfigs(flags)
	if err != nil {
		if flags.JSON {
			return core.EmitCLIError(core.ErrCodeConfigError, err.Error(), core.ExitGeneralError)
		}
		tui.PrintError("Configuration Error", err.Error())
		return core.ExitGeneralError
	}

	log := buildLogFor(flags)
	orchestrator := core.NewPipelineOrchestrator(log)
	bctx := buildContextFor(flags)

	var outcome types.BuildOutcome
	if checkOnly {
		outcome = orchestrator.Check(context.Background(), bctx, &job, &global)
	} else {
		outcome = orchestrator.Run(context.Background(), bctx, &job, &global)
	}

	exitCode := core.ExitCodeForOutcome(outcome)
	if flags.JSON {
		switch outcome {
		case types.OutcomeFailed:
			return core.EmitCLIError(core.ErrCodePolicyRejected, "build failed: open source policy violation or unsupported configuration", exitCode)
		case types.OutcomeConditionalFailure:
			return core.EmitCLIError(core.ErrCodeServiceError, "build failed: service communication error with fail-on-error enabled", exitCode)
		default:
			core.EmitCLISuccess(map[string]interface{}{
				"outcome":      outcome.String(),
				"project":      bctx.ProjectName,
				"build_number": bctx.BuildNumber,
			})
		}
	}
	return exitCode
}

// runValidate executes the validate command and returns the process exit code.
func runValidate(flags pipelineFlags) int {
	global, job, err := loadConfigs(flags)
	if err != nil {
		if flags.JSON {
			return core.EmitCLIError(core.ErrCodeConfigError, err.Error(), core.ExitGeneralError)
		}
		tui.PrintError("Configuration Error", err.Error())
		return core.ExitGeneralError
	}

	validator := core.NewValidationService()
	problems := validator.ValidateGlobal(&global)
	problems = append(problems, validator.ValidateJob(&job)...)

	if flags.JSON {
		if len(problems) > 0 {
			return core.EmitCLIError(core.ErrCodeValidationFailed,
				strings.Join(problems, "; "), core.ExitValidationFailed)
		}
		core.EmitCLISuccess(map[string]interface{}{
			"global_config": flags.GlobalConfig,
			"job_config":    flags.JobConfig,
			"problems":      []string{},
		})
		return core.ExitSuccess
	}

	if len(problems) > 0 {
		tui.PrintWarning("Validation Failed", fmt.Sprintf("Found %d problems", len(problems)))
		for _, p := range problems {
			fmt.Printf("  • %s\n", p)
		}
		return core.ExitValidationFailed
	}

	if !flags.Quiet {
		tui.PrintSuccess("Validation passed")
		fmt.Printf("• Global config: %s\n", flags.GlobalConfig)
		fmt.Printf("• Job config: %s\n", flags.JobConfig)
	}
	return core.ExitSuccess
}

func main() {
	// A .env next to the binary can hold HTTP_PROXY and friends for local runs.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		tui.PrintHelp()
		os.Exit(0)
	}

	command := os.Args[1]

	// Handle help flags
	if command == "--help" || command == "-h" || command == "help" {
		tui.PrintHelp()
		os.Exit(0)
	}

	// Handle version flag
	if command == "--version" || command == "version" {
		fmt.Printf("whitesource-plugin %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
		os.Exit(0)
	}

	switch command {
	case "run", "check":
		flags, remaining, err := parsePipelineFlags(os.Args[2:])
		if err != nil {
			tui.PrintError("Invalid Arguments", err.Error())
			os.Exit(core.ExitInvalidArguments)
		}
		if len(remaining) > 0 {
			tui.PrintError("Invalid Arguments", fmt.Sprintf("unknown argument: %s", remaining[0]))
			os.Exit(core.ExitInvalidArguments)
		}
		os.Exit(runPipeline(flags, command == "check"))

	case "validate":
		flags, _, err := parsePipelineFlags(os.Args[2:])
		if err != nil {
			tui.PrintError("Invalid Arguments", err.Error())
			os.Exit(core.ExitInvalidArguments)
		}
		os.Exit(runValidate(flags))

	case "setup":
		flags, _, err := parsePipelineFlags(os.Args[2:])
		if err != nil {
			tui.PrintError("Invalid Arguments", err.Error())
			os.Exit(core.ExitInvalidArguments)
		}

		store := core.NewFileGlobalConfigStore(flags.GlobalConfig)
		existing, err := store.Load()
		if err != nil {
			tui.PrintError("Configuration Error", err.Error())
			os.Exit(1)
		}

		cfg := tui.RunSetupWizard(existing)
		if cfg == nil {
			return
		}

		if err := store.Save(*cfg); err != nil {
			tui.PrintError("Save Failed", err.Error())
			os.Exit(1)
		}
		tui.PrintSuccess("Configuration written to " + store.Path())

	case "watch":
		flags, _, err := parsePipelineFlags(os.Args[2:])
		if err != nil {
			tui.PrintError("Invalid Arguments", err.Error())
			os.Exit(core.ExitInvalidArguments)
		}

		log := buildLogFor(flags)
		orchestrator := core.NewPipelineOrchestrator(log)
		bctx := buildContextFor(flags)

		var tracker tui.ProgressTracker = tui.NewNoOpProgressTracker()
		if !flags.Quiet && !flags.JSON {
			tracker = tui.NewProgressTracker("Policy checks")
		}

		watchErr := orchestrator.Watch(core.WatchOptions{
			WorkspaceDir:  flags.Workspace,
			JobConfigPath: flags.JobConfig,
		}, func() error {
			// Reload both layers on each run so config edits take effect.
			global, job, err := loadConfigs(flags)
			if err != nil {
				return err
			}
			tracker.Increment("workspace changed, re-checking policies")
			orchestrator.Check(context.Background(), bctx, &job, &global)
			return nil
		})
		if watchErr != nil {
			tracker.Fail(watchErr)
			tui.PrintError("Watch Failed", watchErr.Error())
			os.Exit(1)
		}
		tracker.Complete()

	case "completion":
		if len(os.Args) < 3 {
			tui.PrintError("Missing Shell", "usage: whitesource-plugin completion <bash|zsh|fish|powershell>")
			os.Exit(core.ExitInvalidArguments)
		}
		switch os.Args[2] {
		case "bash":
			fmt.Print(cmd.GenerateBashCompletion())
		case "zsh":
			fmt.Print(cmd.GenerateZshCompletion())
		case "fish":
			fmt.Print(cmd.GenerateFishCompletion())
		case "powershell":
			fmt.Print(cmd.GeneratePowerShellCompletion())
		default:
			tui.PrintError("Unknown Shell", fmt.Sprintf("unsupported shell: %s", os.Args[2]))
			os.Exit(core.ExitInvalidArguments)
		}

	default:
		tui.PrintError("Unknown Command", fmt.Sprintf("unknown command: %s", command))
		fmt.Println()
		tui.PrintHelp()
		os.Exit(core.ExitInvalidArguments)
	}
}
