package fixtures

import (
	"github.com/samplesuite/harness-fixtures/settings"
)

// These pass only when the platform sets the variables in the fixture process.
func environmentFixtures() []Fixture {
	return []Fixture{
		{
			Name:     "maven flag",
			Expect:   Pass,
			Requires: CapabilityMaven,
			Body: func(t *T) {
				t.RequireFlag(settings.EnvVar(settings.KeyMaven), t.Settings().MavenFlag)
			},
		},
		{
			Name:     "maven wrapper flag",
			Expect:   Pass,
			Requires: CapabilityMavenWrapper,
			Body: func(t *T) {
				t.RequireFlag(settings.EnvVar(settings.KeyMavenWrapper), t.Settings().MavenWrapperFlag)
			},
		},
	}
}
