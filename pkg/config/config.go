package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/transientbar/transientbar-go/pkg/bar"
)

// Config errors.
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidTimeout  = errors.New("animation timeout must be positive")
)

// Duration is a time.Duration that unmarshals from YAML duration strings.
// The literal "indefinite" maps to bar.DurationIndefinite.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "indefinite" {
		*d = Duration(bar.DurationIndefinite)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	if time.Duration(d) == bar.DurationIndefinite {
		return "indefinite", nil
	}
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds host-level settings for the demo binary and embedders.
type Config struct {
	// DefaultDuration is the visible duration applied when a show request
	// does not specify one.
	DefaultDuration Duration `yaml:"defaultDuration"`

	// AnimationDuration is how long simulated entrance/exit animations run.
	AnimationDuration Duration `yaml:"animationDuration"`

	// AnimationTimeout bounds how long the watchdog waits for an animation
	// hook to report completion.
	AnimationTimeout Duration `yaml:"animationTimeout"`

	// EventLog is the path of the CBOR event log. Empty disables file
	// logging.
	EventLog string `yaml:"eventLog"`

	// PauseOnScreenReader enables pausing auto-dismiss while the session
	// accessibility bus reports an active screen reader.
	PauseOnScreenReader bool `yaml:"pauseOnScreenReader"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultDuration:   Duration(bar.DurationLong),
		AnimationDuration: Duration(150 * time.Millisecond),
		AnimationTimeout:  Duration(5 * time.Second),
	}
}

// Load reads a YAML config file, applying defaults for absent fields.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if d := c.DefaultDuration.Std(); d < 0 && d != bar.DurationIndefinite {
		return fmt.Errorf("%w: defaultDuration %v", ErrInvalidDuration, d)
	}
	if c.AnimationDuration.Std() < 0 {
		return fmt.Errorf("%w: animationDuration %v", ErrInvalidDuration, c.AnimationDuration.Std())
	}
	if c.AnimationTimeout.Std() <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
