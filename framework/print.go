package framework

import (
	"fmt"
	"io"
	"strings"
)

// PrintResults writes a summary of the run: the number of fixtures that passed, failed and
// were skipped, then each failure with its errors. Groups are not counted as fixtures; a
// group that failed outside its fixtures, for instance by panicking, is counted on its own.
func PrintResults(out io.Writer, results Results) {
	var passed, failed, skipped, failedGroups int
	for _, t := range results.Tests {
		switch {
		case t.Group:
			if t.Failed() {
				failedGroups++
			}
		case t.Failed():
			failed++
		case t.Skipped:
			skipped++
		default:
			passed++
		}
	}
	fmt.Fprintf(out, "Fixtures: %d passed, %d failed, %d skipped", passed, failed, skipped)
	switch failedGroups {
	case 0:
	case 1:
		fmt.Fprint(out, "; 1 group failed")
	default:
		fmt.Fprintf(out, "; %d groups failed", failedGroups)
	}
	fmt.Fprintln(out)
	if results.OK() {
		return
	}
	fmt.Fprintln(out, "FAILED TESTS:")
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(reformatError(err).Error(), "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
}
