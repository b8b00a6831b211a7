package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"

	"github.com/samplesuite/harness-fixtures/fixtures"
	"github.com/samplesuite/harness-fixtures/framework"
	"github.com/samplesuite/harness-fixtures/settings"
)

type commandParams struct {
	configFile    string
	envFile       string
	filters       framework.RegexFilters
	debug         bool
	debugAll      bool
	junitPath     string
	slowDelay     time.Duration
	longDelay     time.Duration
	webDriverURL  string
	browser       string
	webDriverWait time.Duration
	jsonOutput    bool
	capabilities  []string
	settingsCmd   *cobra.Command
}

func (c *commandParams) addSettingsFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.configFile, "config", "", "settings file (YAML, JSON or TOML)")
	fs.StringVar(&c.envFile, "env-file", "", "dotenv file with fixture environment variables")
	fs.DurationVar(&c.slowDelay, "slow-delay", settings.DefaultSlowDelay, "delay of the slow timing fixtures")
	fs.DurationVar(&c.longDelay, "long-delay", settings.DefaultLongDelay, "delay of the long timing fixtures")
	fs.StringVar(&c.webDriverURL, "webdriver-url", "", "remote WebDriver endpoint (overrides REMOTE_WEBDRIVER_URL)")
	fs.StringVar(&c.browser, "browser", settings.DefaultBrowser, "browser to request (overrides SELENIUM_BROWSER)")
	c.settingsCmd = cmd
}

func (c *commandParams) addRunFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select fixtures to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select fixtures not to run")
	fs.DurationVar(&c.webDriverWait, "webdriver-wait", 0, "wait up to this long for the remote WebDriver to be ready before running")
	fs.StringSliceVar(&c.capabilities, "capability", nil,
		"capabilities the platform provides; fixtures requiring others are skipped (default: all)")
}

// declaredCapabilities returns nil, meaning all capabilities, unless --capability was given.
func (c *commandParams) declaredCapabilities() (fixtures.Capabilities, error) {
	if c.settingsCmd == nil || !c.settingsCmd.Flags().Changed("capability") {
		return nil, nil
	}
	declared := make(fixtures.Capabilities, 0, len(c.capabilities))
	for _, name := range c.capabilities {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !fixtures.Capabilities(fixtures.AllCapabilities).Has(fixtures.Capability(name)) {
			return nil, fmt.Errorf("unknown capability %q (known: %s)", name, knownCapabilities())
		}
		declared = append(declared, fixtures.Capability(name))
	}
	return declared, nil
}

func knownCapabilities() string {
	names := make([]string, 0, len(fixtures.AllCapabilities))
	for _, c := range fixtures.AllCapabilities {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// loadOptions turns the flags that were given explicitly into settings overrides, so that
// flag defaults do not mask the environment.
func (c *commandParams) loadOptions() settings.LoadOptions {
	opts := settings.LoadOptions{
		ConfigFile: c.configFile,
		EnvFile:    c.envFile,
		Overrides:  make(map[string]interface{}),
	}
	if c.settingsCmd == nil {
		return opts
	}
	fs := c.settingsCmd.Flags()
	if fs.Changed("slow-delay") {
		opts.Overrides[settings.KeySlowDelay] = c.slowDelay
	}
	if fs.Changed("long-delay") {
		opts.Overrides[settings.KeyLongDelay] = c.longDelay
	}
	if fs.Changed("webdriver-url") {
		opts.Overrides[settings.KeyWebDriverURL] = c.webDriverURL
	}
	if fs.Changed("browser") {
		opts.Overrides[settings.KeyBrowser] = c.browser
	}
	return opts
}

// rerunCommand builds a command line that runs only the given fixtures again.
func rerunCommand(program string, ids []framework.TestID) string {
	var b commandBuilder
	b.add(program, "run")
	for _, id := range ids {
		b.add("--run", framework.ExactPattern(id))
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
