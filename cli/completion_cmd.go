package main

import (
	"fmt"
	"os"
)

func runCompletion(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: riskboard completion <bash|zsh|fish|powershell>")
		return 2
	}

	shell := args[0]
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	case "powershell":
		fmt.Print(powershellCompletion)
	default:
		fmt.Fprintf(os.Stderr, "unsupported shell: %s\n", shell)
		fmt.Fprintln(os.Stderr, "Supported shells: bash, zsh, fish, powershell")
		return 2
	}

	return 0
}

const bashCompletion = `# riskboard bash completion
_riskboard_completions() {
    local cur prev commands views
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="view show watch serve brief export badge views completion version"
    views="dashboard risk-profile risk-events team-risk phishing-simulation behavioral-analytics access-monitoring remediation organization-overview"

    case "${prev}" in
        riskboard)
            COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
            return 0
            ;;
        view|show)
            COMPREPLY=( $(compgen -W "${views}" -- "${cur}") )
            return 0
            ;;
        --log-format)
            COMPREPLY=( $(compgen -W "text json" -- "${cur}") )
            return 0
            ;;
        --snapshot|--config|--output)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "--config --snapshot --log-format --verbose --version --select --search --output --json --debounce --max-reloads --allowed-paths --model --base-url --timeout --no-browser --label" -- "${cur}") )
        return 0
    fi
}
complete -F _riskboard_completions riskboard
`

const zshCompletion = `#compdef riskboard
# riskboard zsh completion

_riskboard() {
    local -a commands views
    commands=(
        'view:Render one page as JSON'
        'show:Interactive terminal dashboard'
        'watch:Reload the snapshot on change and print KPIs'
        'serve:Start MCP server on stdio'
        'brief:Write an LLM risk briefing for one user'
        'export:Write a self-contained HTML report'
        'badge:Write SVG posture and event badges'
        'views:List the dashboard views'
        'completion:Generate shell completions'
        'version:Print version and exit'
    )
    views=(dashboard risk-profile risk-events team-risk phishing-simulation behavioral-analytics access-monitoring remediation organization-overview)

    _arguments -C \
        '--config[Configuration file]:file:_files' \
        '--snapshot[Snapshot file]:file:_files' \
        '--log-format[Log format]:format:(text json)' \
        '(-v --verbose)'{-v,--verbose}'[Debug logging]' \
        '--version[Print version]' \
        '1:command:->cmds' \
        '*::arg:->args'

    case "$state" in
        cmds)
            _describe 'command' commands
            ;;
        args)
            case "${words[1]}" in
                view|show)
                    _values 'view' $views
                    ;;
                export)
                    _arguments '--output[Output file]:file:_files' '--no-browser[Do not open a browser]'
                    ;;
                completion)
                    _values 'shell' bash zsh fish powershell
                    ;;
            esac
            ;;
    esac
}

_riskboard "$@"
`

const fishCompletion = `# riskboard fish completion
complete -c riskboard -n '__fish_use_subcommand' -a 'view' -d 'Render one page as JSON'
complete -c riskboard -n '__fish_use_subcommand' -a 'show' -d 'Interactive terminal dashboard'
complete -c riskboard -n '__fish_use_subcommand' -a 'watch' -d 'Reload the snapshot on change and print KPIs'
complete -c riskboard -n '__fish_use_subcommand' -a 'serve' -d 'Start MCP server on stdio'
complete -c riskboard -n '__fish_use_subcommand' -a 'brief' -d 'Write an LLM risk briefing for one user'
complete -c riskboard -n '__fish_use_subcommand' -a 'export' -d 'Write a self-contained HTML report'
complete -c riskboard -n '__fish_use_subcommand' -a 'badge' -d 'Write SVG posture and event badges'
complete -c riskboard -n '__fish_use_subcommand' -a 'views' -d 'List the dashboard views'
complete -c riskboard -n '__fish_use_subcommand' -a 'completion' -d 'Generate shell completions'
complete -c riskboard -n '__fish_use_subcommand' -a 'version' -d 'Print version and exit'
complete -c riskboard -l config -d 'Configuration file' -rF
complete -c riskboard -l snapshot -d 'Snapshot file' -rF
complete -c riskboard -l log-format -d 'Log format' -a 'text json'
complete -c riskboard -s v -l verbose -d 'Debug logging'
complete -c riskboard -l version -d 'Print version'
complete -c riskboard -n '__fish_seen_subcommand_from view show' -a 'dashboard risk-profile risk-events team-risk phishing-simulation behavioral-analytics access-monitoring remediation organization-overview'
complete -c riskboard -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'
`

const powershellCompletion = `# riskboard PowerShell completion
Register-ArgumentCompleter -Native -CommandName riskboard -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @('view', 'show', 'watch', 'serve', 'brief', 'export', 'badge', 'views', 'completion', 'version')
    $views = @('dashboard', 'risk-profile', 'risk-events', 'team-risk', 'phishing-simulation', 'behavioral-analytics', 'access-monitoring', 'remediation', 'organization-overview')

    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }
    $candidates = $commands
    if ($words.Count -ge 2 -and @('view', 'show') -contains $words[1]) {
        $candidates = $views
    }

    $candidates | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`
