package fixtures

import (
	"context"

	"github.com/samplesuite/harness-fixtures/framework"
)

// group names, in the order the suite runs them
const (
	GroupAssertions = "assertions"
	GroupTiming     = "timing"
	GroupEnv        = "environment"
	GroupBrowser    = "browser"
)

// Catalog returns every fixture in the order the suite runs them.
func Catalog() []Fixture {
	var all []Fixture
	add := func(group string, fixtures []Fixture) {
		for _, f := range fixtures {
			f.Group = group
			all = append(all, f)
		}
	}
	add(GroupAssertions, assertionFixtures())
	add(GroupTiming, timingFixtures())
	add(GroupEnv, environmentFixtures())
	add(GroupBrowser, browserFixtures())
	return all
}

// RunSuite runs the fixtures of the catalog, grouped, and returns their results.
func RunSuite(
	ctx context.Context,
	env Environment,
	catalog []Fixture,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(ctx, filter, testLogger, func(c *framework.Context) {
		t := newT(c, &env)
		for _, group := range groupByName(catalog) {
			fixtures := group
			t.RunGroup(fixtures[0].Group, func(t *T) {
				for _, f := range fixtures {
					fixture := f
					t.Run(fixture.Name, func(t *T) {
						t.RequireCapability(fixture.Requires)
						fixture.Body(t)
					})
				}
			})
		}
	})
}

func groupByName(catalog []Fixture) [][]Fixture {
	var groups [][]Fixture
	index := make(map[string]int)
	for _, f := range catalog {
		i, ok := index[f.Group]
		if !ok {
			i = len(groups)
			index[f.Group] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], f)
	}
	return groups
}
