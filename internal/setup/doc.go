// Package setup orchestrates the repository seeding workflow: cloning a
// source repository, configuring the committer identity, installing project
// dependencies, and optionally pushing every branch and tag to a new remote.
package setup
