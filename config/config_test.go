package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromArgs(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	require.NoError(t, RegisterFlags(cmd))
	require.NoError(t, cmd.ParseFlags(args))
	return LoadConfig(cmd)
}

func TestLoadConfigValid(t *testing.T) {
	cfg, err := loadFromArgs(t, "--mbox", "export.mbox", "--dump-fields")
	require.NoError(t, err)

	assert.Equal(t, "export.mbox", cfg.MboxPath)
	assert.Equal(t, "contacts.json", cfg.OutPath)
	assert.True(t, cfg.DumpFields)
	assert.True(t, cfg.WantFrom())
	assert.True(t, cfg.WantTo())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigConflictingOmitFlags(t *testing.T) {
	_, err := loadFromArgs(t, "--mbox", "export.mbox", "--omit-from", "--omit-to")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot both be set")
}

func TestLoadConfigRequiresOneInput(t *testing.T) {
	_, err := loadFromArgs(t)
	require.Error(t, err)
}

func TestLoadConfigRejectsBothInputs(t *testing.T) {
	_, err := loadFromArgs(t, "--mbox", "export.mbox", "--fields-json", "fields.json")
	require.Error(t, err)
}

func TestLoadConfigFieldsJSONRejectsOmitFlags(t *testing.T) {
	_, err := loadFromArgs(t, "--fields-json", "fields.json", "--omit-from")
	require.Error(t, err)

	_, err = loadFromArgs(t, "--fields-json", "fields.json", "--dump-fields")
	require.Error(t, err)
}

func TestLoadConfigLogLevel(t *testing.T) {
	cfg, err := loadFromArgs(t, "--mbox", "export.mbox", "--log-level", "WARNING")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = loadFromArgs(t, "--mbox", "export.mbox", "--log-level", "loud")
	require.Error(t, err)
}

func TestInputVariant(t *testing.T) {
	cfg, err := loadFromArgs(t, "--mbox", "export.mbox")
	require.NoError(t, err)
	assert.Equal(t, Input{ArchivePath: "export.mbox"}, cfg.Input())

	cfg, err = loadFromArgs(t, "--fields-json", "fields.json")
	require.NoError(t, err)
	assert.Equal(t, Input{CachePath: "fields.json"}, cfg.Input())
}

func TestOmitFlagsSelectKinds(t *testing.T) {
	cfg, err := loadFromArgs(t, "--mbox", "export.mbox", "--omit-to")
	require.NoError(t, err)
	assert.True(t, cfg.WantFrom())
	assert.False(t, cfg.WantTo())

	cfg, err = loadFromArgs(t, "--mbox", "export.mbox", "--omit-from")
	require.NoError(t, err)
	assert.False(t, cfg.WantFrom())
	assert.True(t, cfg.WantTo())
}
