package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/samplesuite/harness-fixtures/framework"
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

var (
	failedLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	skippedLabel = color.New(color.FgYellow).SprintFunc()
)

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Out, "  %s %s\n", failedLabel("FAILED:"), id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Out, "  %s %s\n", skippedLabel("SKIPPED:"), id)
	} else {
		fmt.Fprintf(c.Out, "  %s %s (%s)\n", skippedLabel("SKIPPED:"), id, reason)
	}
}

// ProgressTestLogger advances a progress bar as fixtures finish, instead of printing each
// one. Fixtures are the IDs with depth fixtureDepth; groups are not counted.
type ProgressTestLogger struct {
	bar                   *progressbar.ProgressBar
	fixtureDepth          int
	passed, failed, skips int
}

func NewProgressTestLogger(out io.Writer, total, fixtureDepth int) *ProgressTestLogger {
	p := &ProgressTestLogger{fixtureDepth: fixtureDepth}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

func (p *ProgressTestLogger) description() string {
	return color.CyanString("Verifying: ") +
		color.GreenString("[pass: %d", p.passed) + " | " +
		color.RedString("fail: %d", p.failed) + " | " +
		color.YellowString("skipped: %d]", p.skips)
}

func (p *ProgressTestLogger) TestStarted(framework.TestID)      {}
func (p *ProgressTestLogger) TestError(framework.TestID, error) {}

func (p *ProgressTestLogger) TestFinished(id framework.TestID, failed bool, _ framework.CapturedOutput) {
	if len(id.Path) != p.fixtureDepth {
		return
	}
	if failed {
		p.failed++
	} else {
		p.passed++
	}
	p.advance()
}

func (p *ProgressTestLogger) TestSkipped(id framework.TestID, _ string) {
	if len(id.Path) != p.fixtureDepth {
		return
	}
	p.skips++
	p.advance()
}

func (p *ProgressTestLogger) advance() {
	p.bar.Describe(p.description())
	_ = p.bar.Add(1)
}

// Counts returns how many fixtures passed, failed and were skipped so far.
func (p *ProgressTestLogger) Counts() (passed, failed, skipped int) {
	return p.passed, p.failed, p.skips
}

func (p *ProgressTestLogger) Finish() {
	_ = p.bar.Finish()
}

// DebugOutputRecorder keeps the debug output of each fixture that finished, for showing
// after a run whose progress was only summarized.
type DebugOutputRecorder struct {
	output map[string]framework.CapturedOutput
}

func NewDebugOutputRecorder() *DebugOutputRecorder {
	return &DebugOutputRecorder{output: make(map[string]framework.CapturedOutput)}
}

func (r *DebugOutputRecorder) TestStarted(framework.TestID)         {}
func (r *DebugOutputRecorder) TestError(framework.TestID, error)    {}
func (r *DebugOutputRecorder) TestSkipped(framework.TestID, string) {}

func (r *DebugOutputRecorder) TestFinished(id framework.TestID, _ bool, debugOutput framework.CapturedOutput) {
	r.output[id.String()] = debugOutput
}

// Output returns the debug output recorded for a fixture, if any.
func (r *DebugOutputRecorder) Output(id framework.TestID) framework.CapturedOutput {
	return r.output[id.String()]
}
