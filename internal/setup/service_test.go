package setup_test

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitseed/internal/execshell"
	"github.com/temirov/gitseed/internal/gitrepo"
	"github.com/temirov/gitseed/internal/setup"
)

const (
	serviceTestSourceLocatorConstant = "https://example.com/org/project.git"
	serviceTestPushTargetConstant    = "https://example.com/mirror/project.git"
	serviceTestUserNameConstant      = "Example User"
	serviceTestUserEmailConstant     = "user@example.com"
	serviceTestWorkspaceConstant     = "/workspace"
)

type recordedInvocation struct {
	commandName execshell.CommandName
	arguments   []string
	directory   string
}

type recordingToolExecutor struct {
	invocations []recordedInvocation
	failingStep int
	stepCounter int
}

func (executor *recordingToolExecutor) record(commandName execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.stepCounter++
	executor.invocations = append(executor.invocations, recordedInvocation{
		commandName: commandName,
		arguments:   details.Arguments,
		directory:   details.WorkingDirectory,
	})
	if executor.failingStep > 0 && executor.stepCounter == executor.failingStep {
		command := execshell.ShellCommand{Name: commandName, Details: details}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: command,
			Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "boom"},
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *recordingToolExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.record(execshell.CommandGit, details)
}

func (executor *recordingToolExecutor) ExecutePDM(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.record(execshell.CommandPDM, details)
}

type fakeFileSystem struct {
	existingPaths map[string]bool
}

func (fileSystem fakeFileSystem) Stat(path string) (fs.FileInfo, error) {
	if fileSystem.existingPaths[path] {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func (fakeFileSystem) AbsolutePath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(serviceTestWorkspaceConstant, path), nil
}

func newServiceForTest(testInstance *testing.T, executor *recordingToolExecutor, fileSystem setup.FileSystem, output *bytes.Buffer, availableTools map[string]bool) *setup.Service {
	testInstance.Helper()

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	toolChecker := setup.NewToolChecker(func(executableName string) (string, error) {
		if availableTools[executableName] {
			return "/usr/bin/" + executableName, nil
		}
		return "", fs.ErrNotExist
	})

	service, serviceError := setup.NewService(setup.ServiceDependencies{
		Logger:             zap.NewNop(),
		RepositoryManager:  repositoryManager,
		DependencyExecutor: executor,
		ToolChecker:        toolChecker,
		FileSystem:         fileSystem,
		Output:             output,
	})
	require.NoError(testInstance, serviceError)

	return service
}

func allToolsAvailable() map[string]bool {
	return map[string]bool{"git": true, "pdm": true}
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	testCases := []struct {
		name         string
		dependencies setup.ServiceDependencies
	}{
		{
			name:         "missing_repository_manager",
			dependencies: setup.ServiceDependencies{DependencyExecutor: executor},
		},
		{
			name:         "missing_dependency_executor",
			dependencies: setup.ServiceDependencies{RepositoryManager: repositoryManager},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := setup.NewService(testCase.dependencies)
			require.Error(testInstance, creationError)
			require.Nil(testInstance, service)
		})
	}
}

func TestServiceExecutesWorkflowWithoutPush(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	output := &bytes.Buffer{}
	service := newServiceForTest(testInstance, executor, fakeFileSystem{}, output, allToolsAvailable())

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
	})
	require.NoError(testInstance, executionError)

	expectedDestination := filepath.Join(serviceTestWorkspaceConstant, "project")
	expectedInvocations := []recordedInvocation{
		{execshell.CommandGit, []string{"clone", "--mirror", serviceTestSourceLocatorConstant, filepath.Join(expectedDestination, ".git")}, ""},
		{execshell.CommandGit, []string{"config", "--bool", "core.bare", "false"}, expectedDestination},
		{execshell.CommandGit, []string{"checkout"}, expectedDestination},
		{execshell.CommandGit, []string{"config", "user.name", serviceTestUserNameConstant}, expectedDestination},
		{execshell.CommandGit, []string{"config", "user.email", serviceTestUserEmailConstant}, expectedDestination},
		{execshell.CommandPDM, []string{"install"}, expectedDestination},
	}
	require.Equal(testInstance, expectedInvocations, executor.invocations)
	require.True(testInstance, strings.HasSuffix(output.String(), "Done.\n"))
}

func TestServiceExecutesWorkflowWithPush(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	output := &bytes.Buffer{}
	service := newServiceForTest(testInstance, executor, fakeFileSystem{}, output, allToolsAvailable())

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
		PushTarget:    serviceTestPushTargetConstant,
	})
	require.NoError(testInstance, executionError)

	expectedDestination := filepath.Join(serviceTestWorkspaceConstant, "project")
	expectedTrailingInvocations := []recordedInvocation{
		{execshell.CommandGit, []string{"remote", "add", "target", serviceTestPushTargetConstant}, expectedDestination},
		{execshell.CommandGit, []string{"push", "target", "refs/heads/*:refs/heads/*"}, expectedDestination},
		{execshell.CommandGit, []string{"push", "target", "refs/tags/*:refs/tags/*"}, expectedDestination},
	}
	require.Len(testInstance, executor.invocations, 9)
	require.Equal(testInstance, expectedTrailingInvocations, executor.invocations[6:])
}

func TestServiceHonorsDestinationOverride(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	output := &bytes.Buffer{}
	service := newServiceForTest(testInstance, executor, fakeFileSystem{}, output, allToolsAvailable())

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator:       serviceTestSourceLocatorConstant,
		UserName:            serviceTestUserNameConstant,
		UserEmail:           serviceTestUserEmailConstant,
		DestinationOverride: "custom-checkout",
	})
	require.NoError(testInstance, executionError)

	expectedDestination := filepath.Join(serviceTestWorkspaceConstant, "custom-checkout")
	require.Equal(
		testInstance,
		[]string{"clone", "--mirror", serviceTestSourceLocatorConstant, filepath.Join(expectedDestination, ".git")},
		executor.invocations[0].arguments,
	)
}

func TestServiceRejectsExistingDestination(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	output := &bytes.Buffer{}
	expectedDestination := filepath.Join(serviceTestWorkspaceConstant, "project")
	fileSystem := fakeFileSystem{existingPaths: map[string]bool{expectedDestination: true}}
	service := newServiceForTest(testInstance, executor, fileSystem, output, allToolsAvailable())

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
	})

	var existsError setup.DestinationExistsError
	require.ErrorAs(testInstance, executionError, &existsError)
	require.Equal(testInstance, expectedDestination, existsError.Path)
	require.Empty(testInstance, executor.invocations)
}

func TestServiceRequiresExternalTools(testInstance *testing.T) {
	executor := &recordingToolExecutor{}
	output := &bytes.Buffer{}
	service := newServiceForTest(testInstance, executor, fakeFileSystem{}, output, map[string]bool{"git": true})

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
	})

	var toolNotFoundError setup.ToolNotFoundError
	require.ErrorAs(testInstance, executionError, &toolNotFoundError)
	require.Equal(testInstance, "pdm", toolNotFoundError.ToolName)
	require.Empty(testInstance, executor.invocations)
}

func TestServiceValidatesOptions(testInstance *testing.T) {
	testCases := []struct {
		name          string
		options       setup.Options
		expectedError string
	}{
		{
			name:          "missing_source",
			options:       setup.Options{UserName: serviceTestUserNameConstant, UserEmail: serviceTestUserEmailConstant},
			expectedError: "invalid options: source repository URL is required",
		},
		{
			name:          "missing_user_name",
			options:       setup.Options{SourceLocator: serviceTestSourceLocatorConstant, UserEmail: serviceTestUserEmailConstant},
			expectedError: "invalid options: committer user name is required",
		},
		{
			name:          "missing_user_email",
			options:       setup.Options{SourceLocator: serviceTestSourceLocatorConstant, UserName: serviceTestUserNameConstant},
			expectedError: "invalid options: committer user email is required",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingToolExecutor{}
			service := newServiceForTest(testInstance, executor, fakeFileSystem{}, &bytes.Buffer{}, allToolsAvailable())

			executionError := service.Execute(context.Background(), testCase.options)
			require.EqualError(testInstance, executionError, testCase.expectedError)
			require.Empty(testInstance, executor.invocations)
		})
	}
}

func TestServiceEmitsNoExtraLogsWhenInstallFails(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	executor := &recordingToolExecutor{failingStep: 6}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	service, serviceError := setup.NewService(setup.ServiceDependencies{
		Logger:             zap.New(observerCore),
		RepositoryManager:  repositoryManager,
		DependencyExecutor: executor,
		ToolChecker: setup.NewToolChecker(func(executableName string) (string, error) {
			return "/usr/bin/" + executableName, nil
		}),
		FileSystem: fakeFileSystem{},
		Output:     &bytes.Buffer{},
	})
	require.NoError(testInstance, serviceError)

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
	})

	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &failedError)
	require.Len(testInstance, executor.invocations, 6)

	for _, logEntry := range observedLogs.All() {
		require.LessOrEqual(testInstance, logEntry.Level, zapcore.InfoLevel)
	}
}

func TestServiceStopsAtFirstCommandFailure(testInstance *testing.T) {
	executor := &recordingToolExecutor{failingStep: 2}
	output := &bytes.Buffer{}
	service := newServiceForTest(testInstance, executor, fakeFileSystem{}, output, allToolsAvailable())

	executionError := service.Execute(context.Background(), setup.Options{
		SourceLocator: serviceTestSourceLocatorConstant,
		UserName:      serviceTestUserNameConstant,
		UserEmail:     serviceTestUserEmailConstant,
		PushTarget:    serviceTestPushTargetConstant,
	})

	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &failedError)
	require.Len(testInstance, executor.invocations, 2)
	require.NotContains(testInstance, output.String(), "Done.")
}
