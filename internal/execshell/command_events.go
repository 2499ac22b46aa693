package execshell

// CommandEventObserver receives lifecycle notifications as the executor runs
// git and pdm steps of the seeding workflow.
type CommandEventObserver interface {
	// CommandStarted fires just before the external tool is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires after the tool exits, whatever the exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the tool could not be launched at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver is installed until SetEventObserver provides one.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
