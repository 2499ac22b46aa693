package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandDeclaresExpectedFlags(testInstance *testing.T) {
	application := NewApplication()

	expectedLocalFlagNames := []string{"user-name", "user-email", "dest", "push-to"}
	for _, flagName := range expectedLocalFlagNames {
		require.NotNil(testInstance, application.rootCommand.Flags().Lookup(flagName), flagName)
	}

	expectedPersistentFlagNames := []string{configFileFlagNameConstant, logLevelFlagNameConstant, logFormatFlagNameConstant}
	for _, flagName := range expectedPersistentFlagNames {
		require.NotNil(testInstance, application.rootCommand.PersistentFlags().Lookup(flagName), flagName)
	}
}

func TestRootCommandRejectsMissingSourceArgument(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetArgs([]string{})
	application.rootCommand.SetOut(io.Discard)
	application.rootCommand.SetErr(io.Discard)

	require.Error(testInstance, application.rootCommand.Execute())
}

func TestHumanReadableLoggingTracksConfiguredFormat(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logFormat     string
		expectConsole bool
	}{
		{name: "structured_format", logFormat: "structured", expectConsole: false},
		{name: "console_format", logFormat: "console", expectConsole: true},
		{name: "console_format_mixed_case", logFormat: "Console", expectConsole: true},
		{name: "empty_format", logFormat: "", expectConsole: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			application := NewApplication()
			application.configuration.Common.LogFormat = testCase.logFormat
			require.Equal(testInstance, testCase.expectConsole, application.humanReadableLoggingEnabled())
		})
	}
}

func TestResolveBuildsWorkflowExecutor(testInstance *testing.T) {
	application := NewApplication()
	application.configuration.Common.LogFormat = "console"

	workflow, resolutionError := application.Resolve(application.logger, &bytes.Buffer{})
	require.NoError(testInstance, resolutionError)
	require.NotNil(testInstance, workflow)
}
