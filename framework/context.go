package framework

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	ctx        context.Context
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of a single fixture. It implements the subset of *testing.T that the
// testify assert and require packages need, so fixtures can use those packages directly.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	group       bool
}

// Run executes the root action and returns the accumulated results of every fixture that
// was started with Context.Run. The ctx is made available to fixtures through Context.Ctx;
// cancelling it is how a caller interrupts blocking fixture helpers.
func Run(
	ctx context.Context,
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if ctx == nil {
		ctx = context.Background()
	}
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		ctx:        ctx,
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.recovered(r)
		}
		c.runCleanups()
		if len(c.id.Path) == 0 {
			return
		}
		result := TestResult{
			TestID:     c.id,
			Errors:     c.errors,
			Skipped:    c.skipped,
			SkipReason: c.skipReason,
			Duration:   time.Since(started),
			Group:      c.group,
		}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) recovered(r interface{}) {
	if c.skipped {
		return
	}
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

// Cleanups run in reverse order of registration. A cleanup that panics or calls FailNow
// marks the fixture as failed but does not stop the remaining cleanups.
func (c *Context) runCleanups() {
	for len(c.cleanups) > 0 {
		last := len(c.cleanups) - 1
		fn := c.cleanups[last]
		c.cleanups = c.cleanups[:last]
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.skipped = false
					c.recovered(r)
				}
			}()
			fn()
		}()
	}
}

// ID returns the full identifier of this fixture.
func (c *Context) ID() TestID {
	return c.id
}

// Ctx returns the context of the whole run. It is cancelled when the caller of Run wants
// fixtures to stop.
func (c *Context) Ctx() context.Context {
	return c.env.ctx
}

// Run starts a sub-fixture. If the filter excludes it, it is reported as skipped and the
// action is not called.
func (c *Context) Run(name string, action func(*Context)) {
	c.runChild(name, false, action)
}

// RunGroup starts a group of sub-fixtures. Groups are not subject to the filter, so that a
// pattern naming one fixture in a group still reaches it; the fixtures inside are filtered
// by their full IDs.
func (c *Context) RunGroup(name string, action func(*Context)) {
	c.runChild(name, true, action)
}

func (c *Context) runChild(name string, group bool, action func(*Context)) {
	path := append(append([]string(nil), c.id.Path...), name)
	id := TestID{Path: path}

	c.env.testLogger.TestStarted(id)
	if !group && c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:    id,
		env:   c.env,
		group: group,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Defer registers a function to be called when the fixture ends, whether it passed, failed
// or was skipped.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
