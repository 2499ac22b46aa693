package gitrepo

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/temirov/gitseed/internal/execshell"
)

const (
	gitCloneSubcommandConstant            = "clone"
	gitMirrorFlagConstant                 = "--mirror"
	gitConfigSubcommandConstant           = "config"
	gitBoolFlagConstant                   = "--bool"
	gitCheckoutSubcommandConstant         = "checkout"
	gitRemoteSubcommandConstant           = "remote"
	gitRemoteAddSubcommandConstant        = "add"
	gitPushSubcommandConstant             = "push"
	coreBareConfigurationKeyConstant      = "core.bare"
	coreBareDisabledValueConstant         = "false"
	gitDirectoryNameConstant              = ".git"
	executorNotConfiguredMessageConstant  = "git executor not configured"
	userNameConfigurationKeyConstant      = "user.name"
	userEmailConfigurationKeyConstant     = "user.email"
	branchesReferenceSpecificationLiteral = "refs/heads/*:refs/heads/*"
	tagsReferenceSpecificationLiteral     = "refs/tags/*:refs/tags/*"
)

// Reference specifications forwarding every branch and tag while excluding
// pull-request refs.
const (
	BranchesReferenceSpecification = branchesReferenceSpecificationLiteral
	TagsReferenceSpecification     = tagsReferenceSpecificationLiteral
)

// ErrExecutorNotConfigured reports construction without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager issues git operations against a repository through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CloneMirror fetches the full repository history, including every branch and
// tag ref, into the git directory beneath destinationPath.
func (manager *RepositoryManager) CloneMirror(executionContext context.Context, sourceLocator string, destinationPath string) error {
	gitDirectoryPath := filepath.Join(destinationPath, gitDirectoryNameConstant)
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitCloneSubcommandConstant, gitMirrorFlagConstant, sourceLocator, gitDirectoryPath},
	})
	return executionError
}

// MarkRepositoryNonBare converts a mirror clone into a regular repository by
// clearing the bare flag in repository-local configuration.
func (manager *RepositoryManager) MarkRepositoryNonBare(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, gitBoolFlagConstant, coreBareConfigurationKeyConstant, coreBareDisabledValueConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// CheckoutWorkingTree populates the working directory from the checked-in default branch.
func (manager *RepositoryManager) CheckoutWorkingTree(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// SetIdentity writes the user.name and user.email values scoped to the repository.
func (manager *RepositoryManager) SetIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error {
	if configurationError := manager.setConfigurationValue(executionContext, repositoryPath, userNameConfigurationKeyConstant, userName); configurationError != nil {
		return configurationError
	}
	return manager.setConfigurationValue(executionContext, repositoryPath, userEmailConfigurationKeyConstant, userEmail)
}

func (manager *RepositoryManager) setConfigurationValue(executionContext context.Context, repositoryPath string, configurationKey string, configurationValue string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, configurationKey, configurationValue},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// AddRemote registers remoteURL under remoteName in the repository.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// Push forwards the refs selected by referenceSpecification to remoteName.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, remoteName string, referenceSpecification string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, remoteName, referenceSpecification},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}
