package setup

import (
	"fmt"
	"os/exec"
)

const toolNotFoundMessageTemplateConstant = "required tool not found on PATH: %s"

// ToolNotFoundError reports a required executable missing from PATH.
type ToolNotFoundError struct {
	ToolName string
}

// Error describes the missing tool.
func (toolError ToolNotFoundError) Error() string {
	return fmt.Sprintf(toolNotFoundMessageTemplateConstant, toolError.ToolName)
}

// ExecutableLocator resolves an executable name to a filesystem path.
type ExecutableLocator func(executableName string) (string, error)

// ToolChecker verifies that required external tools are installed.
type ToolChecker struct {
	locator ExecutableLocator
}

// NewToolChecker constructs a ToolChecker using the provided locator, falling
// back to PATH lookup when none is supplied.
func NewToolChecker(locator ExecutableLocator) ToolChecker {
	if locator == nil {
		locator = exec.LookPath
	}
	return ToolChecker{locator: locator}
}

// EnsureAvailable confirms each named tool resolves to an executable.
func (checker ToolChecker) EnsureAvailable(toolNames ...string) error {
	for _, toolName := range toolNames {
		if _, lookupError := checker.locator(toolName); lookupError != nil {
			return ToolNotFoundError{ToolName: toolName}
		}
	}
	return nil
}
