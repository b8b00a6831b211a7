package fixtures

import (
	"fmt"
	"time"

	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
)

// Mismatch is a fixture whose result contradicts its declaration.
type Mismatch struct {
	ID       framework.TestID
	Expected Outcome
	Actual   Outcome
	Reason   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.ID, m.Reason)
}

// Verify compares each fixture's result with its declared outcome and delay. Fixtures that
// were skipped or not run are not checked.
func Verify(catalog []Fixture, s settings.Settings, results framework.Results) []Mismatch {
	var mismatches []Mismatch
	for _, f := range catalog {
		r, ok := results.Find(f.ID())
		if !ok {
			continue
		}
		actual := OutcomeOf(r)
		if actual == Skipped {
			continue
		}
		if actual != f.Expect {
			mismatches = append(mismatches, Mismatch{
				ID:       f.ID(),
				Expected: f.Expect,
				Actual:   actual,
				Reason:   fmt.Sprintf("expected %s but got %s", f.Expect, actual),
			})
			continue
		}
		if want := f.Delay.For(s); r.Duration < want {
			mismatches = append(mismatches, Mismatch{
				ID:       f.ID(),
				Expected: f.Expect,
				Actual:   actual,
				Reason: fmt.Sprintf("finished in %s, before its %s delay",
					r.Duration.Round(time.Millisecond), want),
			})
		}
	}
	return mismatches
}
