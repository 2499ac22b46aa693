package setup

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/gitseed/internal/execshell"
	"github.com/temirov/gitseed/internal/gitrepo"
)

// WorkflowExecutor runs the repository setup workflow.
type WorkflowExecutor interface {
	Execute(executionContext context.Context, options Options) error
}

// WorkflowResolver creates workflow executors for the command.
type WorkflowResolver interface {
	Resolve(logger *zap.Logger, output io.Writer) (WorkflowExecutor, error)
}

// ShellWorkflowResolver constructs workflow executors backed by os/exec.
type ShellWorkflowResolver struct {
	EventObserver execshell.CommandEventObserver
}

// Resolve builds a Service wired to a shell-backed executor.
func (resolver ShellWorkflowResolver) Resolve(logger *zap.Logger, output io.Writer) (WorkflowExecutor, error) {
	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	if resolver.EventObserver != nil {
		shellExecutor.SetEventObserver(resolver.EventObserver)
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return nil, managerError
	}

	return NewService(ServiceDependencies{
		Logger:             logger,
		RepositoryManager:  repositoryManager,
		DependencyExecutor: shellExecutor,
		ToolChecker:        NewToolChecker(nil),
		FileSystem:         OSFileSystem{},
		Output:             output,
	})
}
