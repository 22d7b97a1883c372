// Package cmd provides CLI utilities for whitesource-plugin
package cmd

import (
	"fmt"
	"strings"
)

// Commands available in whitesource-plugin
var commands = []string{
	"run",
	"check",
	"validate",
	"setup",
	"watch",
	"version",
	"completion",
	"help",
}

// Flags shared by the pipeline commands
const pipelineFlags = "--global-config --job-config --workspace --build-kind --project --build-number --prior-result --report-dir --json --quiet -q"

// GenerateBashCompletion generates bash completion script
func GenerateBashCompletion() string {
	return fmt.Sprintf(`# bash completion for whitesource-plugin
_whitesource_plugin_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Commands
    opts="%s"

    # Command-specific options
    case "${prev}" in
        run|check|watch)
            opts="%s"
            ;;
        validate)
            opts="--global-config --job-config --json --quiet -q"
            ;;
        setup)
            opts="--global-config"
            ;;
        completion)
            opts="bash zsh fish powershell"
            ;;
        version|help)
            opts=""
            ;;
    esac

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
}

complete -F _whitesource_plugin_completions whitesource-plugin
`, strings.Join(commands, " "), pipelineFlags)
}

// GenerateZshCompletion generates zsh completion script
func GenerateZshCompletion() string {
	cmdList := make([]string, len(commands))
	for i, cmd := range commands {
		desc := getCommandDescription(cmd)
		cmdList[i] = fmt.Sprintf("    '%s:%s'", cmd, desc)
	}

	return fmt.Sprintf(`#compdef whitesource-plugin

_whitesource_plugin() {
    local -a commands
    commands=(
%s
    )

    _arguments -C \
        '1: :->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                run|check|watch)
                    _arguments \
                        '--global-config[Global configuration file]:file:_files' \
                        '--job-config[Job configuration file]:file:_files' \
                        '--workspace[Workspace directory]:dir:_directories' \
                        '--build-kind[Build kind]:kind:(multi-module generic legacy-multi-module)' \
                        '--project[Project name]:name:' \
                        '--build-number[Build number]:number:' \
                        '--prior-result[Result of prior build steps]:result:(success failure)' \
                        '--report-dir[Policy report output directory]:dir:_directories' \
                        '--json[JSON output]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]'
                    ;;
                validate)
                    _arguments \
                        '--global-config[Global configuration file]:file:_files' \
                        '--job-config[Job configuration file]:file:_files' \
                        '--json[JSON output]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]'
                    ;;
                setup)
                    _arguments \
                        '--global-config[Global configuration file]:file:_files'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish powershell)'
                    ;;
            esac
            ;;
    esac
}

_whitesource_plugin "$@"
`, strings.Join(cmdList, "\n"))
}

// GenerateFishCompletion generates fish completion script
func GenerateFishCompletion() string {
	var completions []string

	// Add command completions
	for _, cmd := range commands {
		desc := getCommandDescription(cmd)
		completions = append(completions, fmt.Sprintf("complete -c whitesource-plugin -f -n '__fish_use_subcommand' -a '%s' -d '%s'", cmd, desc))
	}

	// Add flag completions
	completions = append(completions, "# run/check/watch command flags")
	for _, flag := range []struct{ name, desc string }{
		{"global-config", "Global configuration file"},
		{"job-config", "Job configuration file"},
		{"workspace", "Workspace directory"},
		{"build-kind", "Build kind"},
		{"project", "Project name"},
		{"build-number", "Build number"},
		{"prior-result", "Result of prior build steps"},
		{"report-dir", "Policy report output directory"},
	} {
		completions = append(completions, fmt.Sprintf("complete -c whitesource-plugin -n '__fish_seen_subcommand_from run check watch' -l %s -d '%s' -r", flag.name, flag.desc))
	}
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from run check watch validate' -l json -d 'JSON output'")
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from run check watch validate' -l quiet -s q -d 'Minimal output'")

	completions = append(completions, "# validate command flags")
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from validate' -l global-config -d 'Global configuration file' -r")
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from validate' -l job-config -d 'Job configuration file' -r")

	completions = append(completions, "# setup command flags")
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from setup' -l global-config -d 'Global configuration file' -r")

	completions = append(completions, "# completion command shells")
	completions = append(completions, "complete -c whitesource-plugin -n '__fish_seen_subcommand_from completion' -f -a 'bash zsh fish powershell'")

	return strings.Join(completions, "\n")
}

// GeneratePowerShellCompletion generates PowerShell completion script
func GeneratePowerShellCompletion() string {
	cmdArray := make([]string, len(commands))
	for i, cmd := range commands {
		cmdArray[i] = fmt.Sprintf("'%s'", cmd)
	}

	flagArray := make([]string, 0)
	for _, f := range strings.Fields(pipelineFlags) {
		flagArray = append(flagArray, fmt.Sprintf("'%s'", f))
	}

	return fmt.Sprintf(`# PowerShell completion for whitesource-plugin
Register-ArgumentCompleter -Native -CommandName whitesource-plugin -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @(%s)

    $line = $commandAst.ToString()
    $tokens = $line.Split(' ')

    if ($tokens.Count -eq 2) {
        # Complete command
        $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
    elseif ($tokens.Count -gt 2) {
        $subcommand = $tokens[1]

        switch ($subcommand) {
            { $_ -in 'run','check','watch' } {
                @(%s) |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'validate' {
                @('--global-config', '--job-config', '--json', '--quiet', '-q') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'setup' {
                @('--global-config') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'completion' {
                @('bash', 'zsh', 'fish', 'powershell') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
        }
    }
}
`, strings.Join(cmdArray, ", "), strings.Join(flagArray, ", "))
}

// getCommandDescription returns a short description for a command
func getCommandDescription(cmd string) string {
	descriptions := map[string]string{
		"run":        "Run the post-build publish pipeline",
		"check":      "Check policies without updating inventory",
		"validate":   "Validate configuration files",
		"setup":      "Interactive global configuration wizard",
		"watch":      "Re-run the pipeline on workspace changes",
		"version":    "Show version information",
		"completion": "Generate shell completion script",
		"help":       "Show help information",
	}

	if desc, ok := descriptions[cmd]; ok {
		return desc
	}
	return ""
}
