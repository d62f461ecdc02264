package metacache

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the deployment-tunable settings, loadable from the
// environment. Collaborators (repositories, store, scheduler, health) are
// code, not configuration, and stay on Options.
type Config struct {
	RefreshInterval time.Duration `env:"METACACHE_REFRESH_INTERVAL" envDefault:"5m"`
	Encoding        string        `env:"METACACHE_ENCODING" envDefault:"msgpack"`
	Disabled        bool          `env:"METACACHE_DISABLED" envDefault:"false"`
}

func ConfigFromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("metacache: parse env: %w", err)
	}
	return c, nil
}

// Apply copies the parsed settings onto opts.
func (c Config) Apply(opts *Options) error {
	enc, err := ParseEncoding(c.Encoding)
	if err != nil {
		return err
	}
	opts.RefreshInterval = c.RefreshInterval
	opts.Encoding = enc
	opts.Disabled = c.Disabled
	return nil
}

// ParseEncoding maps the config spelling of an encoding to its Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "msgpack":
		return EncodingMsgpack, nil
	case "json":
		return EncodingJSON, nil
	case "cbor":
		return EncodingCBOR, nil
	default:
		return 0, fmt.Errorf("metacache: unknown encoding %q", s)
	}
}
