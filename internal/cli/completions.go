package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// Shell is a shell walrus can install completions for.
type Shell string

const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// DetectShell picks the shell from the value of $SHELL, falling back to
// PowerShell on Windows and bash elsewhere.
func DetectShell(shellEnv, goos string) Shell {
	switch {
	case strings.Contains(shellEnv, "zsh"):
		return ShellZsh
	case strings.Contains(shellEnv, "bash"):
		return ShellBash
	case strings.Contains(shellEnv, "fish"):
		return ShellFish
	case goos == "windows":
		return ShellPowerShell
	default:
		return ShellBash
	}
}

// CompletionPath returns where the completion script for shell lives
// under home.
func CompletionPath(shell Shell, home, name string) string {
	switch shell {
	case ShellZsh:
		return filepath.Join(home, ".zsh", "completions", "_"+name)
	case ShellFish:
		return filepath.Join(home, ".config", "fish", "completions", name+".fish")
	case ShellPowerShell:
		return filepath.Join(home, "Documents", "PowerShell", "Modules", name+".ps1")
	default:
		return filepath.Join(home, ".bash_completion.d", name)
	}
}

func writeCompletion(root *cobra.Command, shell Shell, w io.Writer) error {
	switch shell {
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return root.GenBashCompletionV2(w, true)
	}
}

// InstallCompletions writes the completion script for the shell named by
// shellEnv below home and returns its path.
func InstallCompletions(root *cobra.Command, shellEnv, home string) (string, error) {
	shell := DetectShell(shellEnv, runtime.GOOS)
	path := CompletionPath(shell, home, root.Name())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create completion directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 - path is built from the home directory
	if err != nil {
		return "", fmt.Errorf("failed to create completion file: %w", err)
	}
	if err := writeCompletion(root, shell, f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s completions: %w", shell, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s completions: %w", shell, err)
	}
	return path, nil
}
