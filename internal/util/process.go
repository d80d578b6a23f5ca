// Package util provides shared utility functions used across the application.
package util

import (
	"fmt"
	"os/exec"

	"github.com/mitchellh/go-ps"
)

// Runner executes external commands. Arguments are passed as argv, never
// through a shell.
type Runner interface {
	// LookPath searches PATH for name.
	LookPath(name string) (string, error)
	// Run runs the command and waits for it to finish.
	Run(name string, args ...string) error
	// Start starts the command without waiting for it.
	Start(name string, args ...string) error
	// Output runs the command and returns its standard output.
	Output(name string, args ...string) ([]byte, error)
}

// ExecRunner implements Runner with os/exec, discarding command output.
type ExecRunner struct{}

// LookPath searches PATH for name.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run runs the command and waits for it.
func (ExecRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run() // #nosec G204 - fixed command names, arguments are paths
}

// Start starts the command and reaps it in the background.
func (ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - fixed command names, arguments are paths
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Output runs the command and returns its standard output.
func (ExecRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output() // #nosec G204 - fixed command names, arguments are paths
}

// ProcessFinder returns the PIDs of running processes with the given
// executable name.
type ProcessFinder func(name string) ([]int, error)

// FindProcesses finds all processes with the given executable name.
func FindProcesses(name string) ([]int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	var pids []int
	for _, p := range processes {
		if p.Executable() == name {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

// IsRunning reports whether any process has the given executable name.
func IsRunning(find ProcessFinder, name string) bool {
	pids, err := find(name)
	return err == nil && len(pids) > 0
}
