package fixtures

import (
	"github.com/samplesuite/harness-fixtures/webdriver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browserFixtures() []Fixture {
	return []Fixture{
		{
			Name:     "page title",
			Expect:   Pass,
			Requires: CapabilityBrowser,
			Body: func(t *T) {
				s := t.Settings()
				t.WithBrowser(func(session *webdriver.Session) {
					require.NoError(t, session.Navigate(t.Ctx(), s.TargetURL))
					title, err := session.Title(t.Ctx())
					require.NoError(t, err)
					assert.Equal(t, s.ExpectedTitle, title, "unexpected title for %s", s.TargetURL)
				})
			},
		},
	}
}
