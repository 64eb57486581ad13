package gwconfig

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Settings holds the gateway's ambient scalar configuration (spec.md §6,
// SPEC_FULL.md §4.7) — everything that isn't a REDIS_* pool DSN.
type Settings struct {
	HTTPAddr         string `koanf:"http_addr"`
	LogLevel         string `koanf:"log_level"`
	ScanCount        int64  `koanf:"scan_count"`
	ServiceKeyPrefix string `koanf:"service_key_prefix"`
	// ScanTargetPool names the pool keyscan.Engine scans. Empty means "use
	// the service pool", the common single-pool deployment.
	ScanTargetPool string `koanf:"scan_target_pool"`
}

func defaultSettings() Settings {
	return Settings{
		HTTPAddr:         ":8080",
		LogLevel:         "info",
		ScanCount:        defaultScanCountSetting,
		ServiceKeyPrefix: "rpc_gateway",
		ScanTargetPool:   "",
	}
}

const defaultScanCountSetting = 5000

// LoadSettings loads ambient settings with, in ascending precedence:
// hardcoded defaults, an optional YAML file (yamlBytes, nil if absent),
// then GATEWAY_* environment variables — the same precedence order as
// the teacher's LoadWithFile. Unlike LoadPools, this reads the process
// environment directly through koanf's env provider rather than taking
// an explicit environ slice: GATEWAY_* names are a fixed, known schema,
// so there's no need to enumerate os.Environ() by hand.
func LoadSettings(yamlBytes []byte) (Settings, error) {
	k := koanf.New(".")

	settings := defaultSettings()
	if err := k.Load(confmap.Provider(map[string]any{
		"http_addr":          settings.HTTPAddr,
		"log_level":          settings.LogLevel,
		"scan_count":         settings.ScanCount,
		"service_key_prefix": settings.ServiceKeyPrefix,
		"scan_target_pool":   settings.ScanTargetPool,
	}, "."), nil); err != nil {
		return Settings{}, fmt.Errorf("gwconfig: loading defaults: %w", err)
	}

	if len(yamlBytes) > 0 {
		if err := k.Load(rawbytes.Provider(yamlBytes), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("gwconfig: parsing config file: %w", err)
		}
	}

	envProvider := env.ProviderWithValue("GATEWAY_", ".", func(key, value string) (string, any) {
		trimmed := strings.TrimPrefix(key, "GATEWAY_")
		return strings.ToLower(trimmed), value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Settings{}, fmt.Errorf("gwconfig: loading environment: %w", err)
	}

	var out Settings
	if err := k.Unmarshal("", &out); err != nil {
		return Settings{}, fmt.Errorf("gwconfig: unmarshaling settings: %w", err)
	}
	if out.ScanCount <= 0 {
		out.ScanCount = defaultScanCountSetting
	}
	return out, nil
}
