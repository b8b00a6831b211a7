package fixtures

import (
	"github.com/stretchr/testify/assert"
)

func assertionFixtures() []Fixture {
	return []Fixture{
		{
			Name:   "equal literals",
			Expect: Pass,
			Body: func(t *T) {
				assert.Equal(t, 1, 1)
			},
		},
		{
			// Deliberately broken, to check that the platform reports failures.
			Name:   "unequal literals",
			Expect: Fail,
			Body: func(t *T) {
				assert.Equal(t, 1, 2)
			},
		},
		{
			Name:   "equal strings",
			Expect: Pass,
			Body: func(t *T) {
				assert.Equal(t, "hello", "hello")
			},
		},
	}
}
