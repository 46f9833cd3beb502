package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkclean/internal/hoursfmt"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50*time.Millisecond, cfg.MinCallInterval())
	assert.Equal(t, hoursfmt.V1, cfg.HoursVersion())
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "azure", cfg.LLM.Provider)
	assert.Equal(t, "hours_clean_model", cfg.Hours.Engine)
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulkclean.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  min_call_interval: 200ms
batch:
  workers: 2
hours:
  format_version: 2
  source_columns: [ "Hours Note", "Hours Note 2" ]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, 200*time.Millisecond, cfg.MinCallInterval())
	assert.Equal(t, hoursfmt.V2, cfg.HoursVersion())
	assert.Equal(t, []string{"Hours Note", "Hours Note 2"}, cfg.Hours.SourceColumns)
	// Untouched sections keep their defaults.
	assert.Equal(t, "primary_contact_model", cfg.Contacts.Engine)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulkclean.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: carrier-pigeon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AZURE_OPENAI_KEY", "azure-secret")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.LLM.Provider)
	assert.Equal(t, "azure-secret", cfg.LLM.APIKey)
	assert.Equal(t, "https://example.openai.azure.com/", cfg.LLM.AzureEndpoint)
}

func TestCompletionOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.CompletionOptions(cfg.Contacts)

	assert.Equal(t, "primary_contact_model", opts.Engine)
	assert.Equal(t, 0.4, opts.Temperature)
	assert.Equal(t, 15, opts.MaxTokens)
	assert.Equal(t, 0.25, opts.TopP)
	assert.Equal(t, 2, opts.BestOf)
	assert.Equal(t, "%%", opts.Stop)
	assert.Equal(t, 50*time.Millisecond, opts.MinInterval)
}

func TestValidateWorkerFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Batch.Workers = 0
	assert.Error(t, cfg.Validate())
}
