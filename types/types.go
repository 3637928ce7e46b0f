package types

import (
	"fmt"
	"time"
)

// Status represents the possible outcomes of a test execution
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Severity orders statuses for tie-breaking: Error > Fail > Skip > Pass.
func (s Status) Severity() int {
	switch s {
	case StatusError:
		return 3
	case StatusFail:
		return 2
	case StatusSkip:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPass, StatusFail, StatusError, StatusSkip:
		return true
	}
	return false
}

// IsTerminal reports whether a record with this status closes out a test.
func (s Status) IsTerminal() bool {
	return s.IsValid()
}

// Group identifies the test class or suite that owns a set of tests.
// It is the unit of grouping in the report.
type Group struct {
	Name        string // stable qualified name, e.g. "api.TestUserLogin"
	Description string // first line of the group's doc comment, may be empty
}

// DisplayName returns "Name: Description" when a description exists.
func (g Group) DisplayName() string {
	if g.Description != "" {
		return fmt.Sprintf("%s: %s", g.Name, g.Description)
	}
	return g.Name
}

// TestCase identifies one test within a group.
type TestCase struct {
	Name        string // stable name within the group
	Description string // optional one-line description
	Group       Group
}

// QualifiedName returns the run-wide unique name of the test.
func (t TestCase) QualifiedName() string {
	if t.Group.Name == "" {
		return t.Name
	}
	return t.Group.Name + "." + t.Name
}

// DisplayName returns "Name: Description" when a description exists.
func (t TestCase) DisplayName() string {
	if t.Description != "" {
		return fmt.Sprintf("%s: %s", t.Name, t.Description)
	}
	return t.Name
}

// ResultRecord captures the outcome of a single test or sub-result.
// It is immutable once emitted by the collector.
type ResultRecord struct {
	Status   Status
	Test     TestCase
	Output   string        // captured stdout/stderr for the test
	Detail   string        // failure/error trace or skip reason, empty for passes
	Duration time.Duration // measured from test start to the terminal event
}

// SubOutcome describes a failed or errored sub-result. A nil *SubOutcome on
// AddSubTest means the sub-result passed.
type SubOutcome struct {
	Status Status // StatusFail or StatusError
	Detail string // formatted failure detail
}
