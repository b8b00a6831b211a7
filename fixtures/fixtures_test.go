package fixtures

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
)

const testTitle = "Example Domain"

func testSettings() settings.Settings {
	s := settings.Defaults()
	s.SlowDelay = 30 * time.Millisecond
	s.LongDelay = 60 * time.Millisecond
	s.ExpectedTitle = testTitle
	s.TargetURL = "https://example.com"
	return s
}

func value(v interface{}) map[string]interface{} {
	return map[string]interface{}{"value": v}
}

func fakeRemoteEnd(title string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/session", httphelpers.HandlerWithJSONResponse(value(map[string]interface{}{"sessionId": "s1"}), nil))
	mux.Handle("/session/s1/url", httphelpers.HandlerWithJSONResponse(value(nil), nil))
	mux.Handle("/session/s1/title", httphelpers.HandlerWithJSONResponse(value(title), nil))
	mux.Handle("/session/s1", httphelpers.HandlerWithJSONResponse(value(nil), nil))
	return mux
}

func fixture(t *testing.T, id string) Fixture {
	t.Helper()
	for _, f := range Catalog() {
		if f.ID().String() == id {
			return f
		}
	}
	require.Fail(t, "no such fixture", id)
	return Fixture{}
}

func runOne(t *testing.T, ctx context.Context, env Environment, id string) framework.TestResult {
	t.Helper()
	results := RunSuite(ctx, env, []Fixture{fixture(t, id)}, nil, nil)
	r, ok := results.Find(fixture(t, id).ID())
	require.True(t, ok, "fixture %s did not run", id)
	return r
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range Catalog() {
		id := f.ID().String()
		assert.False(t, seen[id], "duplicate fixture %s", id)
		seen[id] = true
		assert.NotNil(t, f.Body, id)
	}
}

func TestAssertionFixtures(t *testing.T) {
	env := Environment{Settings: testSettings()}
	assert.Equal(t, Pass, OutcomeOf(runOne(t, context.Background(), env, "assertions/equal literals")))
	assert.Equal(t, Fail, OutcomeOf(runOne(t, context.Background(), env, "assertions/unequal literals")))
	assert.Equal(t, Pass, OutcomeOf(runOne(t, context.Background(), env, "assertions/equal strings")))
}

func TestTimingFixturesTakeAtLeastTheirDelay(t *testing.T) {
	env := Environment{Settings: testSettings()}
	for _, id := range []string{"timing/slow pass", "timing/slow fail", "timing/long pass"} {
		t.Run(id, func(t *testing.T) {
			f := fixture(t, id)
			started := time.Now()
			r := runOne(t, context.Background(), env, id)
			assert.GreaterOrEqual(t, time.Since(started), f.Delay.For(env.Settings))
			assert.GreaterOrEqual(t, r.Duration, f.Delay.For(env.Settings))
			assert.Equal(t, f.Expect, OutcomeOf(r))
		})
	}
}

func TestTimingOutcomeDoesNotDependOnDelay(t *testing.T) {
	for _, d := range []time.Duration{0, 10 * time.Millisecond, 40 * time.Millisecond} {
		s := testSettings()
		s.SlowDelay = d
		env := Environment{Settings: s}
		assert.Equal(t, Pass, OutcomeOf(runOne(t, context.Background(), env, "timing/slow pass")), "delay %s", d)
		assert.Equal(t, Fail, OutcomeOf(runOne(t, context.Background(), env, "timing/slow fail")), "delay %s", d)
	}
}

func TestCancelledDelayFailsPromptly(t *testing.T) {
	s := testSettings()
	s.LongDelay = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	started := time.Now()
	r := runOne(t, ctx, Environment{Settings: s}, "timing/long pass")
	assert.Less(t, time.Since(started), 5*time.Second)
	require.Equal(t, Fail, OutcomeOf(r))
	assert.Contains(t, r.Errors[0].Error(), "delay was interrupted")
}

func TestEnvironmentFixtures(t *testing.T) {
	for _, tt := range []struct {
		name  string
		value string
		want  Outcome
	}{
		{"true", "true", Pass},
		{"upper case", "TRUE", Pass},
		{"mixed case", "True", Pass},
		{"false", "false", Fail},
		{"other", "1", Fail},
		{"unset", "", Fail},
	} {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.MavenFlag = settings.ParseFlag(tt.value)
			s.MavenWrapperFlag = settings.ParseFlag(tt.value)
			env := Environment{Settings: s}
			assert.Equal(t, tt.want, OutcomeOf(runOne(t, context.Background(), env, "environment/maven flag")))
			assert.Equal(t, tt.want, OutcomeOf(runOne(t, context.Background(), env, "environment/maven wrapper flag")))
		})
	}
}

func TestBrowserFixtureFailsFastWithoutEndpoint(t *testing.T) {
	for _, blank := range []string{"", "  "} {
		s := testSettings()
		s.RemoteWebDriverURL = blank
		transport := &countingTransport{}
		env := Environment{Settings: s, HTTPClient: &http.Client{Transport: transport}}

		r := runOne(t, context.Background(), env, "browser/page title")
		require.Equal(t, Fail, OutcomeOf(r))
		assert.Contains(t, r.Errors[0].Error(), settings.ErrMissingWebDriverURL.Error())
		assert.Equal(t, 0, transport.requests)
	}
}

func TestBrowserFixtureFailsFastWithMalformedEndpoint(t *testing.T) {
	s := testSettings()
	s.RemoteWebDriverURL = "selenium:4444"
	transport := &countingTransport{}
	env := Environment{Settings: s, HTTPClient: &http.Client{Transport: transport}}

	results := RunSuite(context.Background(), env, Catalog(), nil, nil)
	for _, id := range []string{"assertions/equal literals", "assertions/equal strings", "timing/slow pass"} {
		r, ok := results.Find(fixture(t, id).ID())
		require.True(t, ok, id)
		assert.Equal(t, Pass, OutcomeOf(r), id)
	}
	r, ok := results.Find(fixture(t, "browser/page title").ID())
	require.True(t, ok)
	require.Equal(t, Fail, OutcomeOf(r))
	assert.Contains(t, r.Errors[0].Error(), settings.ErrInvalidWebDriverURL.Error())
	assert.Equal(t, 0, transport.requests)
}

type countingTransport struct {
	requests int
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.requests++
	return nil, http.ErrHandlerTimeout
}

func TestBrowserFixtureChecksTitle(t *testing.T) {
	for _, tt := range []struct {
		title string
		want  Outcome
	}{
		{testTitle, Pass},
		{"Something Else", Fail},
	} {
		handler, requests := httphelpers.RecordingHandler(fakeRemoteEnd(tt.title))
		httphelpers.WithServer(handler, func(server *httptest.Server) {
			s := testSettings()
			s.RemoteWebDriverURL = server.URL
			s.Browser = "firefox"

			r := runOne(t, context.Background(), Environment{Settings: s}, "browser/page title")
			assert.Equal(t, tt.want, OutcomeOf(r), "title %q", tt.title)

			var methods []string
			for len(requests) > 0 {
				req := <-requests
				methods = append(methods, req.Request.Method+" "+req.Request.URL.Path)
				if req.Request.URL.Path == "/session/s1/url" {
					var body map[string]string
					require.NoError(t, json.Unmarshal(req.Body, &body))
					assert.Equal(t, "https://example.com", body["url"])
				}
			}
			assert.Equal(t, []string{
				"POST /session",
				"POST /session/s1/url",
				"GET /session/s1/title",
				"DELETE /session/s1",
			}, methods, "session must be released whether the fixture passed or failed")
		})
	}
}

func TestRunSuiteGroupsFixtures(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^assertions"))
	results := RunSuite(context.Background(), Environment{Settings: testSettings()}, Catalog(), filters.AsFilter, nil)

	var ids []string
	for _, r := range results.Tests {
		ids = append(ids, r.TestID.String())
	}
	assert.Equal(t, []string{
		"assertions/equal literals",
		"assertions/unequal literals",
		"assertions/equal strings",
		"assertions",
	}, ids)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "assertions/unequal literals", results.Failures[0].TestID.String())
}

func TestFixturesWithUndeclaredCapabilityAreSkipped(t *testing.T) {
	s := testSettings()
	s.MavenFlag = true
	env := Environment{Settings: s, Capabilities: Capabilities{CapabilityMaven}}

	results := RunSuite(context.Background(), env, Catalog(), nil, nil)
	outcome := func(id string) Outcome {
		r, ok := results.Find(fixture(t, id).ID())
		require.True(t, ok, id)
		return OutcomeOf(r)
	}
	assert.Equal(t, Pass, outcome("environment/maven flag"))
	assert.Equal(t, Skipped, outcome("environment/maven wrapper flag"))
	assert.Equal(t, Skipped, outcome("browser/page title"))
	assert.Equal(t, Pass, outcome("assertions/equal literals"))

	r, _ := results.Find(fixture(t, "browser/page title").ID())
	assert.Equal(t, `platform does not have capability "browser"`, r.SkipReason)
}

func TestCapabilitiesHas(t *testing.T) {
	var all Capabilities
	assert.True(t, all.Has(CapabilityBrowser))
	none := Capabilities{}
	assert.False(t, none.Has(CapabilityBrowser))
	assert.True(t, Capabilities{CapabilityBrowser}.Has(CapabilityBrowser))
}
