package fixtures

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/samplesuite/harness-fixtures/settings"
)

// Listing describes a fixture for the list command.
type Listing struct {
	ID      string              `json:"id"`
	Expect  Outcome             `json:"expect"`
	DelayMS ldvalue.OptionalInt `json:"delayMs"`
	// Requires is the capability the fixture needs from the platform, if any.
	Requires Capability `json:"requires,omitempty"`
}

// List describes the catalog with delays resolved against the settings. A fixture with no
// delay has an undefined DelayMS.
func List(catalog []Fixture, s settings.Settings) []Listing {
	ret := make([]Listing, 0, len(catalog))
	for _, f := range catalog {
		l := Listing{ID: f.ID().String(), Expect: f.Expect, Requires: f.Requires}
		if f.Delay != NoDelay {
			l.DelayMS = ldvalue.NewOptionalInt(int(f.Delay.For(s).Milliseconds()))
		}
		ret = append(ret, l)
	}
	return ret
}
