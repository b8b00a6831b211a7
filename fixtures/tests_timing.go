package fixtures

import (
	"github.com/stretchr/testify/assert"
)

// The outcome of these fixtures does not depend on how long they sleep.
func timingFixtures() []Fixture {
	return []Fixture{
		{
			Name:   "slow pass",
			Expect: Pass,
			Delay:  SlowDelay,
			Body: func(t *T) {
				t.Sleep(SlowDelay.For(t.Settings()))
				assert.Equal(t, 1, 1)
			},
		},
		{
			Name:   "slow fail",
			Expect: Fail,
			Delay:  SlowDelay,
			Body: func(t *T) {
				t.Sleep(SlowDelay.For(t.Settings()))
				assert.Equal(t, 1, 2)
			},
		},
		{
			Name:   "long pass",
			Expect: Pass,
			Delay:  LongDelay,
			Body: func(t *T) {
				t.Sleep(LongDelay.For(t.Settings()))
				assert.Equal(t, 1, 1)
			},
		},
	}
}
