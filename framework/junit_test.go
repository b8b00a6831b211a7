package framework

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/joshdk/go-junit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportedCase struct {
	Suite  string
	Name   string
	Status junit.Status
}

func TestWriteJUnit(t *testing.T) {
	results := Results{
		Tests: []TestResult{
			{TestID: NewTestID("assertions", "equal literals"), Duration: time.Millisecond},
			{TestID: NewTestID("assertions", "unequal literals"), Errors: []error{errors.New("not equal\nmore")}},
			{TestID: NewTestID("assertions"), Group: true},
			{TestID: NewTestID("timing", "slow pass"), Duration: 2 * time.Second},
			{TestID: NewTestID("timing"), Group: true},
			{TestID: NewTestID("browser", "page title"), Skipped: true, SkipReason: "nope"},
			{TestID: NewTestID("browser"), Group: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, results.WriteJUnit(&buf, "fixtures"))

	suites, err := junit.Ingest(buf.Bytes())
	require.NoError(t, err)

	var got []reportedCase
	for _, s := range suites {
		for _, tc := range s.Tests {
			got = append(got, reportedCase{Suite: s.Name, Name: tc.Name, Status: tc.Status})
		}
	}
	want := []reportedCase{
		{"assertions", "equal literals", junit.StatusPassed},
		{"assertions", "unequal literals", junit.StatusFailed},
		{"timing", "slow pass", junit.StatusPassed},
		{"browser", "page title", junit.StatusSkipped},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected report contents (-want +got):\n%s", diff)
	}

	for _, s := range suites {
		if s.Name == "timing" {
			require.Len(t, s.Tests, 1)
			assert.Equal(t, 2*time.Second, s.Tests[0].Duration)
		}
	}
	assert.Contains(t, buf.String(), `message="not equal"`)
}

func TestWriteJUnitTopLevelFixturesUseReportName(t *testing.T) {
	results := Results{Tests: []TestResult{{TestID: NewTestID("lonely")}}}
	var buf bytes.Buffer
	require.NoError(t, results.WriteJUnit(&buf, "fixtures"))
	assert.Contains(t, buf.String(), `classname="fixtures"`)
}
