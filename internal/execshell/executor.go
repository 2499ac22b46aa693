package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	commandFailedMessageTemplateConstant      = "command failed: %s: exit status %d"
	commandExecutionMessageTemplateConstant   = "unable to execute %s: %s"
	standardOutputSectionTemplateConstant     = "\nstdout:\n%s"
	standardErrorSectionTemplateConstant      = "\nstderr:\n%s"
	commandLineJoinSeparatorConstant          = " "
	commandLogFieldNameConstant               = "command"
	exitCodeLogFieldNameConstant              = "exit_code"
	workingDirectoryLogFieldNameConstant      = "working_directory"
)

// Sentinel errors surfaced during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandName identifies a supported external executable.
type CommandName string

// Supported external tools.
const (
	CommandGit CommandName = "git"
	CommandPDM CommandName = "pdm"
)

// CommandDetails describes the invocation parameters for an external tool.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// CommandLine renders the executable name followed by its arguments.
func (command ShellCommand) CommandLine() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLineJoinSeparatorConstant)
}

// ExecutionResult captures the observable outcome of an external invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure including the command line and both captured streams.
func (failedError CommandFailedError) Error() string {
	message := fmt.Sprintf(commandFailedMessageTemplateConstant, failedError.Command.CommandLine(), failedError.Result.ExitCode)
	trimmedStandardOutput := strings.TrimSpace(failedError.Result.StandardOutput)
	if len(trimmedStandardOutput) > 0 {
		message += fmt.Sprintf(standardOutputSectionTemplateConstant, trimmedStandardOutput)
	}
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		message += fmt.Sprintf(standardErrorSectionTemplateConstant, trimmedStandardError)
	}
	return message
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	causeMessage := unknownFailureMessageConstant
	if executionError.Cause != nil {
		causeMessage = executionError.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionMessageTemplateConstant, executionError.Command.CommandLine(), causeMessage)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor coordinates external tool invocations with logging and lifecycle events.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	formatter CommandMessageFormatter
	observer  CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor from the provided logger and runner.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		formatter: CommandMessageFormatter{},
		observer:  noopCommandEventObserver{},
	}, nil
}

// SetEventObserver registers an observer for command lifecycle notifications.
func (executor *ShellExecutor) SetEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.observer = noopCommandEventObserver{}
		return
	}
	executor.observer = observer
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecutePDM runs the dependency manager with the provided details.
func (executor *ShellExecutor) ExecutePDM(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPDM, Details: details})
}

// Execute runs the supplied command, logging lifecycle events and converting
// non-zero exit codes into CommandFailedError values.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		executor.formatter.BuildStartedMessage(command),
		zap.String(commandLogFieldNameConstant, command.CommandLine()),
		zap.String(workingDirectoryLogFieldNameConstant, command.Details.WorkingDirectory),
	)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		failure := CommandExecutionError{Command: command, Cause: runError}
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, runError),
			zap.String(commandLogFieldNameConstant, command.CommandLine()),
		)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, failure
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			executor.formatter.BuildFailureMessage(command, executionResult),
			zap.String(commandLogFieldNameConstant, command.CommandLine()),
			zap.Int(exitCodeLogFieldNameConstant, executionResult.ExitCode),
		)
		executor.observer.CommandCompleted(command, executionResult)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		executor.formatter.BuildSuccessMessage(command),
		zap.String(commandLogFieldNameConstant, command.CommandLine()),
	)
	executor.observer.CommandCompleted(command, executionResult)

	return executionResult, nil
}
