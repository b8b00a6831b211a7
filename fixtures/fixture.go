package fixtures

import (
	"time"

	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
)

// Outcome is the result a fixture is declared to have, or actually had.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Delay says which configured delay, if any, a fixture waits for.
type Delay int

const (
	NoDelay Delay = iota
	SlowDelay
	LongDelay
)

// For resolves the delay against the run's settings.
func (d Delay) For(s settings.Settings) time.Duration {
	switch d {
	case SlowDelay:
		return s.SlowDelay
	case LongDelay:
		return s.LongDelay
	}
	return 0
}

// Capability is something a fixture needs from the platform that runs it.
type Capability string

const (
	// CapabilityMaven means the suite runs through the platform's Maven executor, which sets
	// TESTKUBE_MAVEN.
	CapabilityMaven Capability = "maven"
	// CapabilityMavenWrapper means the executor uses the Maven wrapper and sets
	// TESTKUBE_MAVEN_WRAPPER.
	CapabilityMavenWrapper Capability = "maven-wrapper"
	// CapabilityBrowser means the platform provides a remote WebDriver endpoint.
	CapabilityBrowser Capability = "browser"
)

// AllCapabilities lists every capability a fixture may require.
var AllCapabilities = []Capability{CapabilityMaven, CapabilityMavenWrapper, CapabilityBrowser}

// Capabilities is the set of capabilities the platform declared. A nil set means nothing was
// declared, and every capability is assumed.
type Capabilities []Capability

// Has is true if the set contains the capability, or if the set is nil.
func (c Capabilities) Has(name Capability) bool {
	if c == nil {
		return true
	}
	for _, x := range c {
		if x == name {
			return true
		}
	}
	return false
}

// Fixture is one self-contained test case.
type Fixture struct {
	Group  string
	Name   string
	Expect Outcome
	Delay  Delay
	// Requires, if not empty, is a capability without which the fixture is skipped.
	Requires Capability
	Body     func(*T)
}

// ID returns the identifier the fixture is reported under.
func (f Fixture) ID() framework.TestID {
	return framework.NewTestID(f.Group, f.Name)
}

// OutcomeOf classifies a fixture result.
func OutcomeOf(r framework.TestResult) Outcome {
	switch {
	case r.Failed():
		return Fail
	case r.Skipped:
		return Skipped
	}
	return Pass
}
