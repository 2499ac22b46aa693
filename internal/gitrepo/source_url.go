package gitrepo

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	gitSuffixConstant                       = ".git"
	pathSeparatorConstant                   = "/"
	sourceURLErrorTemplateConstant          = "%s: %s"
	requiredValueMessageConstant            = "value is required"
	invalidSourceURLMessageConstant         = "could not parse source repository URL"
	emptyRepositoryNameMessageConstant      = "could not derive repository name from URL"
	strippedRepositoryNameMessageConstant   = "repository name resolved to empty after stripping .git"
	currentDirectoryPathSegmentNameConstant = "."
)

// SourceURLError indicates a source locator could not yield a repository directory name.
type SourceURLError struct {
	Input   string
	Message string
}

// Error describes the derivation failure.
func (urlError SourceURLError) Error() string {
	return fmt.Sprintf(sourceURLErrorTemplateConstant, urlError.Input, urlError.Message)
}

// DeriveRepositoryDirectoryName extracts the final path segment of the source
// locator and strips a trailing .git suffix.
func DeriveRepositoryDirectoryName(sourceLocator string) (string, error) {
	trimmedLocator := strings.TrimSpace(sourceLocator)
	if len(trimmedLocator) == 0 {
		return "", SourceURLError{Input: sourceLocator, Message: requiredValueMessageConstant}
	}

	parsedLocator, parseError := url.Parse(trimmedLocator)
	if parseError != nil {
		return "", SourceURLError{Input: sourceLocator, Message: invalidSourceURLMessageConstant}
	}

	locatorPath := strings.TrimRight(parsedLocator.Path, pathSeparatorConstant)
	pathSegments := strings.Split(locatorPath, pathSeparatorConstant)
	finalSegment := strings.TrimSpace(pathSegments[len(pathSegments)-1])
	if len(finalSegment) == 0 || finalSegment == currentDirectoryPathSegmentNameConstant {
		return "", SourceURLError{Input: sourceLocator, Message: emptyRepositoryNameMessageConstant}
	}

	repositoryName := strings.TrimSuffix(finalSegment, gitSuffixConstant)
	if len(repositoryName) == 0 {
		return "", SourceURLError{Input: sourceLocator, Message: strippedRepositoryNameMessageConstant}
	}

	return repositoryName, nil
}
