package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable for the duration of the test; viper treats an empty
// variable as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings() {
		t.Setenv(b.EnvVar, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{" true ", false},
		{"true\n", false},
		{"false", false},
		{"1", false},
		{"yes", false},
		{"", false},
		{"truee", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlag(tt.value))
		})
	}
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"90", 90 * time.Second, false},
		{"0.5", 500 * time.Millisecond, false},
		{"1m30s", 90 * time.Second, false},
		{"soon", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"-Inf", 0, true},
		{"1e30", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDelay(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TESTKUBE_MAVEN", "TRUE")
	t.Setenv("TESTKUBE_MAVEN_WRAPPER", "yes")
	t.Setenv("REMOTE_WEBDRIVER_URL", "http://selenium:4444/wd/hub")
	t.Setenv("SELENIUM_BROWSER", "firefox")
	t.Setenv("FIXTURE_SLOW_DELAY", "2")

	s, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.True(t, s.MavenFlag)
	assert.False(t, s.MavenWrapperFlag)
	assert.Equal(t, "http://selenium:4444/wd/hub", s.RemoteWebDriverURL)
	assert.Equal(t, "firefox", s.Browser)
	assert.Equal(t, 2*time.Second, s.SlowDelay)
	assert.Equal(t, DefaultLongDelay, s.LongDelay)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	configFile := writeFile(t, "fixtures.yaml", `
webdriver:
  browser: edge
  target: https://config.example
delay:
  slow: 3s
  long: 4s
`)
	envFile := writeFile(t, ".env", "SELENIUM_BROWSER=safari\nFIXTURE_LONG_DELAY=7\nUNRELATED=1\n")
	t.Setenv("SELENIUM_BROWSER", "firefox")

	s, err := Load(LoadOptions{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Overrides:  map[string]interface{}{KeySlowDelay: time.Second},
	})
	require.NoError(t, err)
	assert.Equal(t, "firefox", s.Browser)                  // env beats env file
	assert.Equal(t, 7*time.Second, s.LongDelay)            // env file beats config file
	assert.Equal(t, "https://config.example", s.TargetURL) // config file beats default
	assert.Equal(t, time.Second, s.SlowDelay)              // override beats everything
	assert.Equal(t, DefaultExpectedTitle, s.ExpectedTitle) // default
}

func TestLoadMissingFiles(t *testing.T) {
	clearEnv(t)
	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	assert.Error(t, err)

	_, err = Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FIXTURE_SLOW_DELAY", "-3s")
	_, err := Load(LoadOptions{})
	assert.Error(t, err)

	t.Setenv("FIXTURE_SLOW_DELAY", "")
	t.Setenv("FIXTURE_LONG_DELAY", "1e30")
	_, err = Load(LoadOptions{})
	assert.Error(t, err)
}

func TestLoadAcceptsMalformedWebDriverURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_WEBDRIVER_URL", "selenium:4444")

	s, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "selenium:4444", s.RemoteWebDriverURL)

	_, err = s.RequireWebDriverURL()
	assert.True(t, errors.Is(err, ErrInvalidWebDriverURL))
}

func TestRequireWebDriverURL(t *testing.T) {
	for _, blank := range []string{"", "   "} {
		_, err := Settings{RemoteWebDriverURL: blank}.RequireWebDriverURL()
		assert.True(t, errors.Is(err, ErrMissingWebDriverURL))
	}
	for _, bad := range []string{"selenium:4444", "ftp://selenium", "http://"} {
		_, err := Settings{RemoteWebDriverURL: bad}.RequireWebDriverURL()
		assert.True(t, errors.Is(err, ErrInvalidWebDriverURL), bad)
	}
	u, err := Settings{RemoteWebDriverURL: " http://x:4444 "}.RequireWebDriverURL()
	require.NoError(t, err)
	assert.Equal(t, "http://x:4444", u)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "TESTKUBE_MAVEN", EnvVar(KeyMaven))
	assert.Equal(t, "", EnvVar("nothing"))
}
