package execshell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// OSCommandRunner runs git and pdm invocations through os/exec, capturing both
// output streams for later diagnostics.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run launches the command and waits for it to exit. A non-zero exit status is
// reported through ExecutionResult.ExitCode rather than an error; the error
// return covers launch failures only.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	toolArguments := append([]string{}, command.Details.Arguments...)
	toolProcess := exec.CommandContext(executionContext, string(command.Name), toolArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		toolProcess.Dir = command.Details.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	toolProcess.Stdout = &standardOutputBuffer
	toolProcess.Stderr = &standardErrorBuffer

	runError := toolProcess.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}
