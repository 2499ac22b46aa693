// Package gitrepo derives repository directory names from source locators and
// issues repository-scoped git operations through a shell executor.
package gitrepo
