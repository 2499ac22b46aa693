package setup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	setupCommandUseConstant              = "gitseed <source-url>"
	setupCommandShortDescriptionConstant = "Clone a repository, configure its committer identity, and install dependencies"
	setupCommandLongDescriptionConstant  = "gitseed mirrors a public repository into a local working copy, sets the repo-local " +
		"committer identity, installs project dependencies, and can push every branch and tag to a new remote."
	userNameFlagNameConstant           = "user-name"
	userNameFlagDescriptionConstant    = "Committer user name written to the cloned repository"
	userEmailFlagNameConstant          = "user-email"
	userEmailFlagDescriptionConstant   = "Committer user email written to the cloned repository"
	destinationFlagNameConstant        = "dest"
	destinationFlagDescriptionConstant = "Destination directory for the clone (defaults to the repository name)"
	pushTargetFlagNameConstant         = "push-to"
	pushTargetFlagDescriptionConstant  = "Remote URL receiving every branch and tag after setup"
	workflowErrorTemplateConstant      = "setup failed: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current setup configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the root setup command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	WorkflowResolver      WorkflowResolver
	Output                io.Writer
}

// Build constructs the root command executing the setup workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	setupCommand := &cobra.Command{
		Use:   setupCommandUseConstant,
		Short: setupCommandShortDescriptionConstant,
		Long:  setupCommandLongDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runSetup,
	}

	setupCommand.Flags().String(userNameFlagNameConstant, "", userNameFlagDescriptionConstant)
	setupCommand.Flags().String(userEmailFlagNameConstant, "", userEmailFlagDescriptionConstant)
	setupCommand.Flags().String(destinationFlagNameConstant, "", destinationFlagDescriptionConstant)
	setupCommand.Flags().String(pushTargetFlagNameConstant, "", pushTargetFlagDescriptionConstant)

	return setupCommand, nil
}

func (builder *CommandBuilder) runSetup(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	workflow, workflowError := builder.resolveWorkflow(logger)
	if workflowError != nil {
		return workflowError
	}

	if executionError := workflow.Execute(command.Context(), options); executionError != nil {
		return fmt.Errorf(workflowErrorTemplateConstant, executionError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	configuration := builder.resolveConfiguration()

	userNameFlagValue, userNameFlagError := command.Flags().GetString(userNameFlagNameConstant)
	if userNameFlagError != nil {
		return Options{}, userNameFlagError
	}

	userEmailFlagValue, userEmailFlagError := command.Flags().GetString(userEmailFlagNameConstant)
	if userEmailFlagError != nil {
		return Options{}, userEmailFlagError
	}

	destinationFlagValue, destinationFlagError := command.Flags().GetString(destinationFlagNameConstant)
	if destinationFlagError != nil {
		return Options{}, destinationFlagError
	}

	pushTargetFlagValue, pushTargetFlagError := command.Flags().GetString(pushTargetFlagNameConstant)
	if pushTargetFlagError != nil {
		return Options{}, pushTargetFlagError
	}

	options := Options{
		SourceLocator:       arguments[0],
		UserName:            selectStringValue(userNameFlagValue, configuration.UserName),
		UserEmail:           selectStringValue(userEmailFlagValue, configuration.UserEmail),
		DestinationOverride: destinationFlagValue,
		PushTarget:          pushTargetFlagValue,
		RemoteName:          configuration.RemoteName,
	}

	return options, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveWorkflow(logger *zap.Logger) (WorkflowExecutor, error) {
	output := builder.Output
	if output == nil {
		output = os.Stdout
	}

	resolver := builder.WorkflowResolver
	if resolver == nil {
		resolver = ShellWorkflowResolver{}
	}

	return resolver.Resolve(logger, output)
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return configurationValue
}
