package fixtures

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
	"github.com/samplesuite/harness-fixtures/webdriver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Environment is everything a fixture may depend on besides its own literals.
type Environment struct {
	Settings settings.Settings
	// HTTPClient is used for requests to the remote WebDriver endpoint. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client
	// Capabilities are what the platform declared it provides; nil means all of them.
	Capabilities Capabilities
}

// T represents a fixture or a group of fixtures.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that
// is outside of the Go test runner, with debug logging provided by the framework package.
// To make assertions, pass the *T to the assert and require packages as if it were a
// *testing.T.
//
// It also provides the few things fixtures need beyond assertions: delays that can be
// interrupted, configuration flags, and scoped browser sessions.
type T struct {
	context *framework.Context
	env     *Environment
}

func newT(context *framework.Context, env *Environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a sub-fixture. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newT(c, t.env))
	})
}

// RunGroup runs a group of sub-fixtures; see framework.Context.RunGroup.
func (t *T) RunGroup(name string, action func(*T)) {
	t.context.RunGroup(name, func(c *framework.Context) {
		action(newT(c, t.env))
	})
}

// ID returns the full identifier of this fixture.
func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Settings returns the configuration of this run.
func (t *T) Settings() settings.Settings {
	return t.env.Settings
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer schedules a function to run when this fixture ends, however it ends.
func (t *T) Defer(fn func()) {
	t.context.Defer(fn)
}

// Sleep blocks for the given duration to simulate long-running work. If the run is
// cancelled first, the fixture fails and exits immediately.
func (t *T) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	t.Debug("Sleeping for %s", d)
	started := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()

	ctx := t.context.Ctx()
	select {
	case <-timer.C:
		t.Debug("Slept for %s", time.Since(started).Round(time.Millisecond))
	case <-ctx.Done():
		require.FailNow(t, "delay was interrupted",
			"run was cancelled after %s of a %s delay: %s",
			time.Since(started).Round(time.Millisecond), d, ctx.Err())
	}
}

// RequireCapability skips this fixture if the platform did not declare the capability.
func (t *T) RequireCapability(capability Capability) {
	if capability == "" || t.env.Capabilities.Has(capability) {
		return
	}
	t.context.SkipWithReason(fmt.Sprintf("platform does not have capability %q", capability))
}

// RequireFlag fails the fixture unless the named configuration flag is true.
func (t *T) RequireFlag(envVar string, value bool) {
	t.Debug("%s parsed as %t", envVar, value)
	assert.True(t, value, fmt.Sprintf("expected %s to be \"true\"; it was not propagated to the fixture process", envVar))
}

// WithBrowser starts a session on the remote WebDriver endpoint, passes it to action, and
// ends the session however action exits.
//
// If no endpoint is configured the fixture fails immediately as misconfigured, without
// attempting any network request.
func (t *T) WithBrowser(action func(*webdriver.Session)) {
	endpoint, err := t.env.Settings.RequireWebDriverURL()
	require.NoError(t, err, "browser fixtures need a remote WebDriver endpoint")

	client := webdriver.NewClient(endpoint, t.env.HTTPClient, framework.PrefixLogger(t.context.DebugLogger(), "webdriver: "))
	err = webdriver.WithSession(t.context.Ctx(), client, t.env.Settings.Browser, func(s *webdriver.Session) error {
		action(s)
		return nil
	})
	require.NoError(t, err)
}

// Ctx returns the context of the run, for passing to blocking calls.
func (t *T) Ctx() context.Context {
	return t.context.Ctx()
}
