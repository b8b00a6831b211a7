package framework

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      string          `xml:"time,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// WriteJUnit writes the results as a JUnit XML report. Fixtures are grouped into one
// testsuite per parent ID; the results of groups themselves are omitted.
func (r Results) WriteJUnit(w io.Writer, name string) error {
	report := junitTestSuites{Name: name}
	suiteIndex := make(map[string]int)
	var suiteTimes []time.Duration
	var total time.Duration

	for _, t := range r.Tests {
		if t.Group {
			continue
		}
		className := t.TestID.Parent().String()
		if className == "" {
			className = name
		}
		i, ok := suiteIndex[className]
		if !ok {
			i = len(report.Suites)
			suiteIndex[className] = i
			report.Suites = append(report.Suites, junitTestSuite{Name: className})
			suiteTimes = append(suiteTimes, 0)
		}
		suite := &report.Suites[i]

		tc := junitTestCase{
			Name:      t.TestID.Name(),
			ClassName: className,
			Time:      formatSeconds(t.Duration),
		}
		switch {
		case t.Failed():
			var messages []string
			for _, err := range t.Errors {
				messages = append(messages, err.Error())
			}
			tc.Failure = &junitFailure{
				Message: firstLine(messages[0]),
				Type:    "AssertionError",
				Body:    strings.Join(messages, "\n"),
			}
			suite.Failures++
			report.Failures++
		case t.Skipped:
			tc.Skipped = &junitSkipped{Message: t.SkipReason}
			suite.Skipped++
			report.Skipped++
		}
		suite.Tests++
		report.Tests++
		suite.TestCases = append(suite.TestCases, tc)
		suiteTimes[i] += t.Duration
		total += t.Duration
	}

	for i := range report.Suites {
		report.Suites[i].Time = formatSeconds(suiteTimes[i])
	}
	report.Time = formatSeconds(total)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JUnit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
