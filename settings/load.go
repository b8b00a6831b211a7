package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyMaven         = "maven"
	KeyMavenWrapper  = "mavenwrapper"
	KeyWebDriverURL  = "webdriver.url"
	KeyBrowser       = "webdriver.browser"
	KeyTargetURL     = "webdriver.target"
	KeyExpectedTitle = "webdriver.title"
	KeySlowDelay     = "delay.slow"
	KeyLongDelay     = "delay.long"
)

type envBinding struct {
	ConfigKey string
	EnvVar    string
}

func envBindings() []envBinding {
	return []envBinding{
		{KeyMaven, "TESTKUBE_MAVEN"},
		{KeyMavenWrapper, "TESTKUBE_MAVEN_WRAPPER"},
		{KeyWebDriverURL, "REMOTE_WEBDRIVER_URL"},
		{KeyBrowser, "SELENIUM_BROWSER"},
		{KeyTargetURL, "TARGET_URL"},
		{KeyExpectedTitle, "EXPECTED_TITLE"},
		{KeySlowDelay, "FIXTURE_SLOW_DELAY"},
		{KeyLongDelay, "FIXTURE_LONG_DELAY"},
	}
}

// EnvVar returns the environment variable bound to a configuration key, or "" if none is.
func EnvVar(key string) string {
	for _, b := range envBindings() {
		if b.ConfigKey == key {
			return b.EnvVar
		}
	}
	return ""
}

// LoadOptions says where to look for settings besides the process environment.
type LoadOptions struct {
	// ConfigFile is an optional YAML, JSON or TOML file using the dotted keys above.
	ConfigFile string
	// EnvFile is an optional dotenv file using the environment variable names.
	EnvFile string
	// Overrides take precedence over every other source. Keys are configuration keys.
	Overrides map[string]interface{}
}

// Load reads settings from, in decreasing order of precedence: overrides, the process
// environment, the dotenv file, the config file, and the defaults.
func Load(opts LoadOptions) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil {
			return Settings{}, fmt.Errorf("reading env file %s: %w", opts.EnvFile, err)
		}
		if err := v.MergeConfigMap(envFileConfig(values)); err != nil {
			return Settings{}, fmt.Errorf("applying env file %s: %w", opts.EnvFile, err)
		}
	}

	for _, b := range envBindings() {
		if err := v.BindEnv(b.ConfigKey, b.EnvVar); err != nil {
			return Settings{}, fmt.Errorf("binding %s: %w", b.EnvVar, err)
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyMaven, "false")
	v.SetDefault(KeyMavenWrapper, "false")
	v.SetDefault(KeyWebDriverURL, "")
	v.SetDefault(KeyBrowser, d.Browser)
	v.SetDefault(KeyTargetURL, d.TargetURL)
	v.SetDefault(KeyExpectedTitle, d.ExpectedTitle)
	v.SetDefault(KeySlowDelay, d.SlowDelay.String())
	v.SetDefault(KeyLongDelay, d.LongDelay.String())
}

// envFileConfig turns dotenv variables into the nested map shape viper uses for
// configuration layers. Variables that are not bound to a key are ignored.
func envFileConfig(values map[string]string) map[string]interface{} {
	root := make(map[string]interface{})
	for _, b := range envBindings() {
		val, ok := values[b.EnvVar]
		if !ok {
			continue
		}
		parts := strings.Split(b.ConfigKey, ".")
		m := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = val
	}
	return root
}

func fromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		MavenFlag:          ParseFlag(v.GetString(KeyMaven)),
		MavenWrapperFlag:   ParseFlag(v.GetString(KeyMavenWrapper)),
		RemoteWebDriverURL: strings.TrimSpace(v.GetString(KeyWebDriverURL)),
		Browser:            strings.TrimSpace(v.GetString(KeyBrowser)),
		TargetURL:          strings.TrimSpace(v.GetString(KeyTargetURL)),
		ExpectedTitle:      v.GetString(KeyExpectedTitle),
	}
	if s.Browser == "" {
		s.Browser = DefaultBrowser
	}

	var err error
	if s.SlowDelay, err = ParseDelay(v.GetString(KeySlowDelay)); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeySlowDelay, err)
	}
	if s.LongDelay, err = ParseDelay(v.GetString(KeyLongDelay)); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyLongDelay, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ParseDelay accepts a Go duration ("1m30s") or a plain number of seconds ("90").
func ParseDelay(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		ns := secs * float64(time.Second)
		if math.IsNaN(ns) || math.IsInf(ns, 0) || math.Abs(ns) >= math.MaxInt64 {
			return 0, fmt.Errorf("invalid delay %q: out of range", value)
		}
		return time.Duration(ns), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: must be a duration or a number of seconds", value)
	}
	return d, nil
}
