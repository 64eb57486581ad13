package gwconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPoolsInjectsDefaultWhenEmpty(t *testing.T) {
	specs, err := LoadPools(nil)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "redis_0", specs[0].Name)
	assert.Equal(t, "localhost:6379", specs[0].Addr)
	assert.True(t, specs[0].Service)
}

func TestLoadPoolsNaturalSortOrder(t *testing.T) {
	environ := []string{
		"REDIS_10=redis://host-ten:6379?name=ten",
		"REDIS_2=redis://host-two:6379?name=two",
		"REDIS_0=redis://host-zero:6379?name=zero",
	}
	specs, err := LoadPools(environ)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, []string{"zero", "two", "ten"}, []string{specs[0].Name, specs[1].Name, specs[2].Name})
	assert.True(t, specs[0].Service)
	assert.False(t, specs[1].Service)
}

func TestLoadPoolsParsesQueryParameters(t *testing.T) {
	environ := []string{
		"REDIS_0=rediss://:secret@cache.internal:6380/3?name=primary&minsize=2&maxsize=10&create_connection_timeout=1.5",
	}
	specs, err := LoadPools(environ)
	require.NoError(t, err)
	require.Len(t, specs, 1)

	s := specs[0]
	assert.Equal(t, "primary", s.Name)
	assert.Equal(t, "cache.internal:6380", s.Addr)
	assert.Equal(t, "secret", s.Password)
	assert.True(t, s.TLS)
	assert.Equal(t, 3, s.DB)
	assert.Equal(t, 2, s.MinIdleConns)
	assert.Equal(t, 10, s.PoolSize)
}

func TestLoadPoolsRejectsDuplicateNames(t *testing.T) {
	environ := []string{
		"REDIS_0=redis://a:6379?name=shared",
		"REDIS_1=redis://b:6379?name=shared",
	}
	_, err := LoadPools(environ)
	assert.Error(t, err)
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", settings.HTTPAddr)
	assert.Equal(t, "info", settings.LogLevel)
	assert.EqualValues(t, defaultScanCountSetting, settings.ScanCount)
	assert.Equal(t, "rpc_gateway", settings.ServiceKeyPrefix)
	assert.Equal(t, "", settings.ScanTargetPool)
}

func TestLoadSettingsAppliesYAMLOverride(t *testing.T) {
	yamlBytes := []byte("log_level: debug\nscan_count: 250\n")
	settings, err := LoadSettings(yamlBytes)
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.EqualValues(t, 250, settings.ScanCount)
}

func TestLoadSettingsEnvironmentOverridesYAML(t *testing.T) {
	t.Setenv("GATEWAY_LOG_LEVEL", "warn")
	t.Setenv("GATEWAY_SERVICE_KEY_PREFIX", "custom_prefix")

	yamlBytes := []byte("log_level: debug\n")
	settings, err := LoadSettings(yamlBytes)
	require.NoError(t, err)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Equal(t, "custom_prefix", settings.ServiceKeyPrefix)
}
