package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samplesuite/harness-fixtures/fixtures"
	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
	"github.com/samplesuite/harness-fixtures/webdriver"
)

const (
	programName = "harness-fixtures"
	reportName  = "harness-fixtures"
	// fixtures are reported as group/name
	fixtureDepth = 2
)

var version = "dev"

// errFailed is returned by a command whose outcome has already been reported; main only
// needs to set the exit status.
var errFailed = errors.New("failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   programName,
		Short: "Fixtures for validating a test-orchestration platform",
		Long: `A suite of deliberately passing, failing, slow, environment-gated and browser-driving
fixtures. Run it through a test-orchestration platform and check that the platform reports
what each fixture declares.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newListCommand(), newVerifyCommand())
	return root
}

func newRunCommand() *cobra.Command {
	p := &commandParams{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fixtures and report each result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixtures(cmd.Context(), cmd.OutOrStdout(), p)
		},
	}
	p.addSettingsFlags(cmd)
	p.addRunFlags(cmd)
	cmd.Flags().BoolVar(&p.debug, "debug", false, "enable debug logging for failed fixtures")
	cmd.Flags().BoolVar(&p.debugAll, "debug-all", false, "enable debug logging for all fixtures")
	cmd.Flags().StringVar(&p.junitPath, "junit", "", "write a JUnit XML report to this path")
	return cmd
}

func newListCommand() *cobra.Command {
	p := &commandParams{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the fixtures with their expected outcome and delay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFixtures(cmd.OutOrStdout(), p)
		},
	}
	p.addSettingsFlags(cmd)
	cmd.Flags().BoolVar(&p.jsonOutput, "json", false, "print the list as JSON")
	return cmd
}

func newVerifyCommand() *cobra.Command {
	p := &commandParams{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the fixtures and check that each one had its declared outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyFixtures(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
	p.addSettingsFlags(cmd)
	p.addRunFlags(cmd)
	cmd.Flags().BoolVar(&p.debug, "debug", false, "show debug output of fixtures that did not have their declared outcome")
	return cmd
}

func loadSettings(ctx context.Context, out io.Writer, p *commandParams) (settings.Settings, error) {
	s, err := settings.Load(p.loadOptions())
	if err != nil {
		return settings.Settings{}, err
	}
	// without a usable endpoint there is nothing to wait for; the browser fixtures report it
	if endpoint, urlErr := s.RequireWebDriverURL(); p.webDriverWait > 0 && urlErr == nil {
		client := webdriver.NewClient(endpoint, nil, nil)
		if _, err := client.AwaitReady(ctx, p.webDriverWait, out); err != nil {
			return settings.Settings{}, fmt.Errorf("remote WebDriver at %s is not ready: %w", client.Endpoint(), err)
		}
	}
	return s, nil
}

func runFixtures(ctx context.Context, out io.Writer, p *commandParams) error {
	s, err := loadSettings(ctx, out, p)
	if err != nil {
		return err
	}
	caps, err := p.declaredCapabilities()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, p.filters)
	fmt.Fprintln(out, "Running fixtures")

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: p.debug || p.debugAll,
		DebugOutputOnSuccess: p.debugAll,
	}
	env := fixtures.Environment{Settings: s, Capabilities: caps}
	results := fixtures.RunSuite(ctx, env, fixtures.Catalog(), p.filters.AsFilter, testLogger)

	fmt.Fprintln(out)
	framework.PrintResults(out, results)

	if p.junitPath != "" {
		if err := writeJUnit(p.junitPath, results); err != nil {
			return err
		}
		fmt.Fprintf(out, "JUnit report written to %s\n", p.junitPath)
	}

	if !results.OK() {
		var ids []framework.TestID
		for _, f := range results.Failures {
			ids = append(ids, f.TestID)
		}
		fmt.Fprintf(out, "\nTo run the failed fixtures again:\n  %s\n", rerunCommand(programName, ids))
		return errFailed
	}
	return nil
}

func writeJUnit(path string, results framework.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JUnit report: %w", err)
	}
	if err := results.WriteJUnit(f, reportName); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func listFixtures(out io.Writer, p *commandParams) error {
	s, err := settings.Load(p.loadOptions())
	if err != nil {
		return err
	}
	listing := fixtures.List(fixtures.Catalog(), s)

	if p.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIXTURE\tEXPECT\tDELAY\tREQUIRES")
	for _, l := range listing {
		delay := "-"
		if l.DelayMS.IsDefined() {
			delay = (time.Duration(l.DelayMS.IntValue()) * time.Millisecond).String()
		}
		requires := "-"
		if l.Requires != "" {
			requires = string(l.Requires)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Expect, delay, requires)
	}
	return w.Flush()
}

func verifyFixtures(ctx context.Context, out, progressOut io.Writer, p *commandParams) error {
	s, err := loadSettings(ctx, out, p)
	if err != nil {
		return err
	}
	caps, err := p.declaredCapabilities()
	if err != nil {
		return err
	}
	framework.PrintFilterDescription(out, p.filters)

	catalog := fixtures.Catalog()
	progress := NewProgressTestLogger(progressOut, len(catalog), fixtureDepth)
	recorder := NewDebugOutputRecorder()
	var testLogger framework.TestLogger = progress
	if p.debug {
		testLogger = framework.MultiTestLogger{progress, recorder}
	}
	env := fixtures.Environment{Settings: s, Capabilities: caps}
	results := fixtures.RunSuite(ctx, env, catalog, p.filters.AsFilter, testLogger)
	progress.Finish()

	mismatches := fixtures.Verify(catalog, s, results)
	passed, failed, skipped := progress.Counts()
	fmt.Fprintf(out, "Fixtures: %d passed, %d failed, %d skipped\n", passed, failed, skipped)
	if len(mismatches) == 0 {
		color.New(color.FgGreen).Fprintln(out, "Every fixture had its declared outcome.")
		return nil
	}
	color.New(color.FgRed, color.Bold).Fprintf(out, "%d fixture(s) did not have their declared outcome:\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Fprintf(out, "  * %s\n", m)
		if p.debug {
			recorder.Output(m.ID).Dump(out, "      DEBUG ")
		}
	}
	return errFailed
}
