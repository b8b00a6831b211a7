package framework

import (
	"strings"
	"time"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	// Group is true for results of Context.RunGroup, which only contain other fixtures.
	Group bool
}

// Failed is true if the fixture recorded at least one error.
func (r TestResult) Failed() bool {
	return len(r.Errors) != 0
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Find returns the result for the fixture with the given ID, if it was run.
func (r Results) Find(id TestID) (TestResult, bool) {
	for _, t := range r.Tests {
		if t.TestID.Equal(id) {
			return t, true
		}
	}
	return TestResult{}, false
}

type TestID struct {
	Path []string
}

// NewTestID builds an ID from its path components.
func NewTestID(path ...string) TestID {
	return TestID{Path: path}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func (t TestID) Equal(other TestID) bool {
	if len(t.Path) != len(other.Path) {
		return false
	}
	for i := range t.Path {
		if t.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

// Parent returns the ID of the enclosing fixture group, or an empty ID for a top-level one.
func (t TestID) Parent() TestID {
	if len(t.Path) == 0 {
		return t
	}
	return TestID{Path: t.Path[:len(t.Path)-1]}
}

// Name returns the last path component.
func (t TestID) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// testify formats its failure messages for the go test console: a leading newline and
// every line indented by a tab.
func reformatError(err error) error {
	s := strings.TrimPrefix(err.Error(), "\n")
	if !strings.HasPrefix(s, "\t") {
		return err
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "\t")
	}
	return errorString(strings.Join(lines, "\n"))
}

type errorString string

func (e errorString) Error() string { return string(e) }
