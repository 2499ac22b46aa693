package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitseed/internal/execshell"
	"github.com/temirov/gitseed/internal/gitrepo"
)

const (
	gitToolNameConstant                      = "git"
	dependencyManagerToolNameConstant        = "pdm"
	dependencyManagerInstallArgumentConstant = "install"
	repositoryManagerMissingMessageConstant  = "repository manager not configured"
	dependencyExecutorMissingMessageConstant = "dependency executor not configured"
	sourceLocatorRequiredMessageConstant     = "source repository URL is required"
	userNameRequiredMessageConstant          = "committer user name is required"
	userEmailRequiredMessageConstant         = "committer user email is required"
	destinationExistsMessageTemplateConstant = "destination already exists: %s"
	destinationResolveErrorTemplateConstant  = "unable to resolve destination path %s: %w"
	destinationInspectErrorTemplateConstant  = "unable to inspect destination path %s: %w"
	cloneProgressMessageTemplateConstant     = "Cloning %s into %s ...\n"
	identityProgressMessageTemplateConstant  = "Configuring committer identity in %s ...\n"
	installProgressMessageTemplateConstant   = "Installing dependencies with %s ...\n"
	pushProgressMessageTemplateConstant      = "Pushing branches and tags to %s ...\n"
	completionMessageConstant                = "Done.\n"
	sourceLocatorLogFieldNameConstant        = "source_url"
	destinationPathLogFieldNameConstant      = "destination_path"
	pushTargetLogFieldNameConstant           = "push_target"
	workflowStartedLogMessageConstant        = "starting repository setup"
	workflowCompletedLogMessageConstant      = "repository setup completed"
	invalidOptionMessageTemplateConstant     = "invalid options: %s"
)

var (
	errRepositoryManagerMissing  = errors.New(repositoryManagerMissingMessageConstant)
	errDependencyExecutorMissing = errors.New(dependencyExecutorMissingMessageConstant)
)

// DestinationExistsError reports a destination path that already exists.
type DestinationExistsError struct {
	Path string
}

// Error describes the conflicting destination.
func (existsError DestinationExistsError) Error() string {
	return fmt.Sprintf(destinationExistsMessageTemplateConstant, existsError.Path)
}

// InvalidOptionError describes setup option validation failures.
type InvalidOptionError struct {
	Message string
}

// Error describes the invalid option.
func (optionError InvalidOptionError) Error() string {
	return fmt.Sprintf(invalidOptionMessageTemplateConstant, optionError.Message)
}

// DependencyExecutor runs the project dependency manager.
type DependencyExecutor interface {
	ExecutePDM(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies describes required collaborators for the setup workflow.
type ServiceDependencies struct {
	Logger             *zap.Logger
	RepositoryManager  *gitrepo.RepositoryManager
	DependencyExecutor DependencyExecutor
	ToolChecker        ToolChecker
	FileSystem         FileSystem
	Output             io.Writer
}

// Options configures a single setup run.
type Options struct {
	SourceLocator       string
	UserName            string
	UserEmail           string
	DestinationOverride string
	PushTarget          string
	RemoteName          string
}

// Service orchestrates cloning, identity configuration, dependency
// installation, and the optional push to a new remote.
type Service struct {
	logger             *zap.Logger
	repositoryManager  *gitrepo.RepositoryManager
	dependencyExecutor DependencyExecutor
	toolChecker        ToolChecker
	fileSystem         FileSystem
	output             io.Writer
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, errRepositoryManagerMissing
	}
	if dependencies.DependencyExecutor == nil {
		return nil, errDependencyExecutorMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	toolChecker := dependencies.ToolChecker
	if toolChecker.locator == nil {
		toolChecker = NewToolChecker(nil)
	}

	service := &Service{
		logger:             logger,
		repositoryManager:  dependencies.RepositoryManager,
		dependencyExecutor: dependencies.DependencyExecutor,
		toolChecker:        toolChecker,
		fileSystem:         fileSystem,
		output:             output,
	}

	return service, nil
}

// Execute runs the full setup workflow for the provided options.
func (service *Service) Execute(executionContext context.Context, options Options) error {
	sanitizedOptions, optionsError := sanitizeOptions(options)
	if optionsError != nil {
		return optionsError
	}

	if toolError := service.toolChecker.EnsureAvailable(gitToolNameConstant, dependencyManagerToolNameConstant); toolError != nil {
		return toolError
	}

	destinationPath, destinationError := service.resolveDestination(sanitizedOptions)
	if destinationError != nil {
		return destinationError
	}

	service.logger.Info(
		workflowStartedLogMessageConstant,
		zap.String(sourceLocatorLogFieldNameConstant, sanitizedOptions.SourceLocator),
		zap.String(destinationPathLogFieldNameConstant, destinationPath),
		zap.String(pushTargetLogFieldNameConstant, sanitizedOptions.PushTarget),
	)

	if cloneError := service.cloneRepository(executionContext, sanitizedOptions.SourceLocator, destinationPath); cloneError != nil {
		return cloneError
	}

	fmt.Fprintf(service.output, identityProgressMessageTemplateConstant, destinationPath)
	if identityError := service.repositoryManager.SetIdentity(executionContext, destinationPath, sanitizedOptions.UserName, sanitizedOptions.UserEmail); identityError != nil {
		return identityError
	}

	if installError := service.installDependencies(executionContext, destinationPath); installError != nil {
		return installError
	}

	if len(sanitizedOptions.PushTarget) > 0 {
		if pushError := service.pushToTarget(executionContext, destinationPath, sanitizedOptions); pushError != nil {
			return pushError
		}
	}

	service.logger.Info(
		workflowCompletedLogMessageConstant,
		zap.String(destinationPathLogFieldNameConstant, destinationPath),
	)
	fmt.Fprint(service.output, completionMessageConstant)

	return nil
}

func sanitizeOptions(options Options) (Options, error) {
	sanitized := Options{
		SourceLocator:       strings.TrimSpace(options.SourceLocator),
		UserName:            strings.TrimSpace(options.UserName),
		UserEmail:           strings.TrimSpace(options.UserEmail),
		DestinationOverride: strings.TrimSpace(options.DestinationOverride),
		PushTarget:          strings.TrimSpace(options.PushTarget),
		RemoteName:          strings.TrimSpace(options.RemoteName),
	}
	if len(sanitized.SourceLocator) == 0 {
		return Options{}, InvalidOptionError{Message: sourceLocatorRequiredMessageConstant}
	}
	if len(sanitized.UserName) == 0 {
		return Options{}, InvalidOptionError{Message: userNameRequiredMessageConstant}
	}
	if len(sanitized.UserEmail) == 0 {
		return Options{}, InvalidOptionError{Message: userEmailRequiredMessageConstant}
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	return sanitized, nil
}

func (service *Service) resolveDestination(options Options) (string, error) {
	destinationCandidate := options.DestinationOverride
	if len(destinationCandidate) == 0 {
		derivedName, derivationError := gitrepo.DeriveRepositoryDirectoryName(options.SourceLocator)
		if derivationError != nil {
			return "", derivationError
		}
		destinationCandidate = derivedName
	}

	destinationPath, absoluteError := service.fileSystem.AbsolutePath(destinationCandidate)
	if absoluteError != nil {
		return "", fmt.Errorf(destinationResolveErrorTemplateConstant, destinationCandidate, absoluteError)
	}

	_, statError := service.fileSystem.Stat(destinationPath)
	if statError == nil {
		return "", DestinationExistsError{Path: destinationPath}
	}
	if !errors.Is(statError, fs.ErrNotExist) {
		return "", fmt.Errorf(destinationInspectErrorTemplateConstant, destinationPath, statError)
	}

	return destinationPath, nil
}

func (service *Service) cloneRepository(executionContext context.Context, sourceLocator string, destinationPath string) error {
	fmt.Fprintf(service.output, cloneProgressMessageTemplateConstant, sourceLocator, destinationPath)

	if cloneError := service.repositoryManager.CloneMirror(executionContext, sourceLocator, destinationPath); cloneError != nil {
		return cloneError
	}
	if configError := service.repositoryManager.MarkRepositoryNonBare(executionContext, destinationPath); configError != nil {
		return configError
	}
	return service.repositoryManager.CheckoutWorkingTree(executionContext, destinationPath)
}

func (service *Service) installDependencies(executionContext context.Context, destinationPath string) error {
	fmt.Fprintf(service.output, installProgressMessageTemplateConstant, dependencyManagerToolNameConstant)

	installDetails := execshell.CommandDetails{
		Arguments:        []string{dependencyManagerInstallArgumentConstant},
		WorkingDirectory: destinationPath,
	}
	_, installError := service.dependencyExecutor.ExecutePDM(executionContext, installDetails)
	return installError
}

func (service *Service) pushToTarget(executionContext context.Context, destinationPath string, options Options) error {
	fmt.Fprintf(service.output, pushProgressMessageTemplateConstant, options.PushTarget)

	if remoteError := service.repositoryManager.AddRemote(executionContext, destinationPath, options.RemoteName, options.PushTarget); remoteError != nil {
		return remoteError
	}
	if branchesError := service.repositoryManager.Push(executionContext, destinationPath, options.RemoteName, gitrepo.BranchesReferenceSpecification); branchesError != nil {
		return branchesError
	}
	return service.repositoryManager.Push(executionContext, destinationPath, options.RemoteName, gitrepo.TagsReferenceSpecification)
}
