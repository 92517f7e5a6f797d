package time

import (
	"time"
)

// Duration wraps time.Duration so values like "60s" or "1m30s" can be read
// from TOML configuration files. BurntSushi/toml decodes it through
// UnmarshalText.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration the way it is parsed.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ToDuration returns the wrapped time.Duration.
func (d *Duration) ToDuration() time.Duration {
	return d.Duration
}
