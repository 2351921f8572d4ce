package decision

import (
	"time"

	// Packages
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// UnmarshalYAML decodes durations from strings such as "30s". Absent keys
// keep the values already present on the receiver.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MinContent  *int    `yaml:"min_content"`
		IdleTimeout *string `yaml:"idle_timeout"`
		Dwell       *string `yaml:"dwell"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MinContent != nil {
		c.MinContent = *raw.MinContent
	}
	if raw.IdleTimeout != nil {
		d, err := time.ParseDuration(*raw.IdleTimeout)
		if err != nil {
			return err
		}
		c.IdleTimeout = d
	}
	if raw.Dwell != nil {
		d, err := time.ParseDuration(*raw.Dwell)
		if err != nil {
			return err
		}
		c.Dwell = d
	}
	return nil
}
