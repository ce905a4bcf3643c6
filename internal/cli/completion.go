package cli

import (
	"fmt"
	"io"
	"strings"
)

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish", "powershell" or "ps") listing algorithms as -algo values.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	switch strings.ToLower(shell) {
	case "bash":
		return writeCompletion(out, bashCompletion, strings.Join(algorithms, " "))
	case "zsh":
		return writeCompletion(out, zshCompletion, strings.Join(algorithms, " "))
	case "fish":
		return writeCompletion(out, fishCompletion, strings.Join(algorithms, " "))
	case "powershell", "ps":
		quoted := make([]string, len(algorithms))
		for i, algo := range algorithms {
			quoted[i] = fmt.Sprintf("'%s'", algo)
		}
		return writeCompletion(out, powerShellCompletion, strings.Join(quoted, ", "))
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func writeCompletion(out io.Writer, script, algoList string) error {
	_, err := fmt.Fprintf(out, script, algoList)
	return err
}

const bashCompletion = `# Bash completion script for gsmul
# Add this to your ~/.bashrc or ~/.bash_completion

_gsmul_completions() {
    local cur prev opts algorithms
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="--help -h --version -V -x -y -base -algo -check -timeout -v -d -details -json -server -port -max-digits -no-color -output -o -quiet -q -interactive -completion"

    algorithms="%s all"

    case "${prev}" in
        -algo)
            COMPREPLY=( $(compgen -W "${algorithms}" -- "${cur}") )
            return 0
            ;;
        -completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        -output|-o)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        -base)
            COMPREPLY=( $(compgen -W "2 8 10 16 36 256" -- "${cur}") )
            return 0
            ;;
        -port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        -timeout)
            COMPREPLY=( $(compgen -W "10s 1m 5m 10m" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _gsmul_completions gsmul
`

const zshCompletion = `#compdef gsmul

# Zsh completion script for gsmul
# Add this to your ~/.zshrc or place in $fpath

_gsmul() {
    local -a algorithms
    algorithms=(%s all)

    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-x[First operand]:digits:' \
        '-y[Second operand]:digits:' \
        '-base[Base of operands and product]:base:(2 8 10 16 36 256)' \
        '-algo[Multiplier to use]:algorithm:($algorithms)' \
        '-check[Cross-check with the reference multiplier]' \
        '-timeout[Maximum execution time]:duration:(10s 1m 5m 10m)' \
        '-v[Display the full product]' \
        '(-d -details)'{-d,-details}'[Show timing details]' \
        '-json[Output in JSON format]' \
        '-server[Start HTTP server mode]' \
        '-port[Server port]:port:(8080 3000 5000 9000)' \
        '-max-digits[Maximum digits per operand in server mode]:digits:' \
        '-no-color[Disable colored output]' \
        '(-o -output)'{-o,-output}'[Output file path]:file:_files' \
        '(-q -quiet)'{-q,-quiet}'[Quiet mode for scripts]' \
        '-interactive[Start interactive REPL mode]' \
        '-completion[Generate completion script]:shell:(bash zsh fish powershell)'
}

_gsmul "$@"
`

const fishCompletion = `# Fish completion script for gsmul
# Add this to ~/.config/fish/completions/gsmul.fish

complete -c gsmul -f

complete -c gsmul -s h -l help -d 'Show help message'
complete -c gsmul -s V -l version -d 'Show version information'

complete -c gsmul -o x -d 'First operand' -x
complete -c gsmul -o y -d 'Second operand' -x
complete -c gsmul -o base -d 'Base of operands and product' -xa '2 8 10 16 36 256'
complete -c gsmul -o algo -d 'Multiplier to use' -xa '%s all'
complete -c gsmul -o check -d 'Cross-check with the reference multiplier'
complete -c gsmul -o timeout -d 'Maximum execution time' -xa '10s 1m 5m 10m'

complete -c gsmul -o v -d 'Display the full product'
complete -c gsmul -o d -o details -d 'Show timing details'
complete -c gsmul -o json -d 'Output in JSON format'
complete -c gsmul -o o -o output -d 'Output file path' -rF
complete -c gsmul -o q -o quiet -d 'Quiet mode for scripts'
complete -c gsmul -o no-color -d 'Disable colored output'

complete -c gsmul -o server -d 'Start HTTP server mode'
complete -c gsmul -o port -d 'Server port' -xa '8080 3000 5000 9000'
complete -c gsmul -o max-digits -d 'Maximum digits per operand in server mode' -x

complete -c gsmul -o interactive -d 'Start interactive REPL mode'
complete -c gsmul -o completion -d 'Generate completion script' -xa 'bash zsh fish powershell'
`

const powerShellCompletion = `# PowerShell completion script for gsmul
# Add this to your $PROFILE

$gsmulAlgorithms = @(%s, 'all')

Register-ArgumentCompleter -CommandName 'gsmul' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-x'; Description = 'First operand' }
        @{Name = '-y'; Description = 'Second operand' }
        @{Name = '-base'; Description = 'Base of operands and product' }
        @{Name = '-algo'; Description = 'Multiplier to use' }
        @{Name = '-check'; Description = 'Cross-check with the reference multiplier' }
        @{Name = '-timeout'; Description = 'Maximum execution time' }
        @{Name = '-v'; Description = 'Display the full product' }
        @{Name = '-d'; Description = 'Show timing details' }
        @{Name = '-json'; Description = 'Output in JSON format' }
        @{Name = '-server'; Description = 'Start HTTP server mode' }
        @{Name = '-port'; Description = 'Server port' }
        @{Name = '-max-digits'; Description = 'Maximum digits per operand in server mode' }
        @{Name = '-no-color'; Description = 'Disable colored output' }
        @{Name = '-o'; Description = 'Output file path' }
        @{Name = '-q'; Description = 'Quiet mode for scripts' }
        @{Name = '-interactive'; Description = 'Start interactive REPL mode' }
        @{Name = '-completion'; Description = 'Generate completion script' }
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
        '-algo' {
            $gsmulAlgorithms | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '-completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '-base' {
            @('2', '8', '10', '16', '36', '256') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
