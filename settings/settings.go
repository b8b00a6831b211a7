// Package settings loads the configuration that fixtures depend on.
//
// Fixtures never read the process environment themselves. Everything they need is read
// once, here, and passed to them as a Settings value.
package settings

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBrowser       = "chrome"
	DefaultTargetURL     = "https://testkube.io"
	DefaultExpectedTitle = "Testkube | Your Friendly Cloud-Native Testing Framework"
	DefaultSlowDelay     = 5 * time.Second
	DefaultLongDelay     = 30 * time.Second
)

// ErrMissingWebDriverURL is returned when a browser fixture needs the remote endpoint but
// none was configured.
var ErrMissingWebDriverURL = errors.New("REMOTE_WEBDRIVER_URL is not set")

// ErrInvalidWebDriverURL is returned when the configured remote endpoint is not an http or
// https URL.
var ErrInvalidWebDriverURL = errors.New("invalid REMOTE_WEBDRIVER_URL")

// Settings is the complete configuration of a fixture run.
type Settings struct {
	// MavenFlag and MavenWrapperFlag are set by the orchestration platform when it runs a
	// suite through Maven or the Maven wrapper. The environment fixtures pass only when the
	// platform propagated them.
	MavenFlag        bool
	MavenWrapperFlag bool

	RemoteWebDriverURL string
	Browser            string
	TargetURL          string
	ExpectedTitle      string

	SlowDelay time.Duration
	LongDelay time.Duration
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Browser:       DefaultBrowser,
		TargetURL:     DefaultTargetURL,
		ExpectedTitle: DefaultExpectedTitle,
		SlowDelay:     DefaultSlowDelay,
		LongDelay:     DefaultLongDelay,
	}
}

// ParseFlag interprets an environment flag: "true" in any letter case is true, anything
// else is false.
func ParseFlag(value string) bool {
	return strings.EqualFold(value, "true")
}

// RequireWebDriverURL returns the remote endpoint, or ErrMissingWebDriverURL if it is unset
// or blank. A malformed endpoint gives an error wrapping ErrInvalidWebDriverURL. Only the
// browser fixtures call this, so a bad endpoint does not stop the others.
func (s Settings) RequireWebDriverURL() (string, error) {
	u := strings.TrimSpace(s.RemoteWebDriverURL)
	if u == "" {
		return "", ErrMissingWebDriverURL
	}
	if err := validateHTTPURL(u); err != nil {
		return "", fmt.Errorf("%w %q: %s", ErrInvalidWebDriverURL, u, err)
	}
	return u, nil
}

// Validate checks values that would otherwise only fail in the middle of a run. The remote
// endpoint is checked by RequireWebDriverURL instead.
func (s Settings) Validate() error {
	var problems []string
	if s.SlowDelay < 0 {
		problems = append(problems, fmt.Sprintf("slow delay must not be negative (got %s)", s.SlowDelay))
	}
	if s.LongDelay < 0 {
		problems = append(problems, fmt.Sprintf("long delay must not be negative (got %s)", s.LongDelay))
	}
	if strings.TrimSpace(s.Browser) == "" {
		problems = append(problems, "browser must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid settings:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
