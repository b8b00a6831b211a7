package framework

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintResults(t *testing.T) {
	failure := TestResult{TestID: NewTestID("g", "bad"), Errors: []error{errors.New("one\ntwo")}}
	results := Results{
		Tests: []TestResult{
			{TestID: NewTestID("g", "good")},
			failure,
			{TestID: NewTestID("g", "later"), Skipped: true},
			{TestID: NewTestID("g"), Group: true},
		},
		Failures: []TestResult{failure},
	}
	var buf bytes.Buffer
	PrintResults(&buf, results)
	assert.Equal(t, "Fixtures: 1 passed, 1 failed, 1 skipped\n"+
		"FAILED TESTS:\n"+
		"  * g/bad\n"+
		"      one\n"+
		"      two\n", buf.String())
}

func TestPrintResultsAllPassed(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{TestID: NewTestID("g", "good")}}})
	assert.Equal(t, "Fixtures: 1 passed, 0 failed, 0 skipped\n", buf.String())
}

func TestPrintResultsCountsFailedGroups(t *testing.T) {
	results := Run(context.Background(), nil, nil, func(c *Context) {
		c.RunGroup("g", func(c *Context) {
			c.Run("good", func(c *Context) {})
			panic("broken group")
		})
	})
	var buf bytes.Buffer
	PrintResults(&buf, results)
	out := buf.String()
	assert.Contains(t, out, "Fixtures: 1 passed, 0 failed, 0 skipped; 1 group failed\n")
	assert.Contains(t, out, "FAILED TESTS:\n  * g\n")
	assert.Contains(t, out, "broken group")
}
