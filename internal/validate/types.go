// Package validate holds the prebuild manifest validators.
//
// Each validator is an independent check over one artifact of a project.
// Validators never return a Go error past their boundary: every failure mode
// is folded into the Result so callers can run the full set and union the
// issue lists without short-circuiting.
package validate

import "fmt"

// Issue is a single validation problem, prefixed by the artifact it concerns.
type Issue struct {
	Artifact string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Artifact, i.Message)
}

// Result contains all issues found by one validator invocation.
type Result struct {
	Issues []Issue
}

// Valid reports whether the validator found no issues.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

// Lines renders the issues as user-facing artifact-prefixed lines, in the
// order they were found.
func (r Result) Lines() []string {
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return lines
}

func (r *Result) addf(artifact, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Artifact: artifact, Message: fmt.Sprintf(format, args...)})
}

// Validator checks one artifact of a project.
type Validator interface {
	// Name returns the unique identifier for this validator.
	Name() string

	// Validate checks the project and returns all issues found.
	Validate(projectPath string) Result
}
