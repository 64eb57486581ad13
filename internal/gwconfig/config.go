package gwconfig

import (
	"os"

	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
)

// Config is the gateway's fully resolved configuration: one pool spec
// per configured Redis, plus the ambient scalar Settings.
type Config struct {
	Pools    []poolreg.Spec
	Settings Settings
}

// Load builds a Config from the live process environment and an
// optional YAML settings file (yamlPath may be empty).
func Load(yamlPath string) (*Config, error) {
	var yamlBytes []byte
	if yamlPath != "" {
		b, err := os.ReadFile(yamlPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		yamlBytes = b
	}

	settings, err := LoadSettings(yamlBytes)
	if err != nil {
		return nil, err
	}
	pools, err := LoadPools(os.Environ())
	if err != nil {
		return nil, err
	}
	return &Config{Pools: pools, Settings: settings}, nil
}
