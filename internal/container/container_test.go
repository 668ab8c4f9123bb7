package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipeline"
	"bscpro/bank-export/internal/store"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.InitializeConfigFromFile("")
	require.NoError(t, err)
	cfg.Rules.Backend = backend
	cfg.Rules.File = filepath.Join(t.TempDir(), "rules.yaml")
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *config.Config
		expectError string
	}{
		{
			name:        "nil config",
			config:      func(t *testing.T) *config.Config { return nil },
			expectError: "configuration cannot be nil",
		},
		{
			name:   "memory backend",
			config: func(t *testing.T) *config.Config { return testConfig(t, config.BackendMemory) },
		},
		{
			name:   "yaml backend",
			config: func(t *testing.T) *config.Config { return testConfig(t, config.BackendYAML) },
		},
		{
			name: "unknown backend",
			config: func(t *testing.T) *config.Config {
				cfg := testConfig(t, config.BackendMemory)
				cfg.Rules.Backend = "redis"
				return cfg
			},
			expectError: "unknown rules backend",
		},
		{
			name: "unreachable database",
			config: func(t *testing.T) *config.Config {
				cfg := testConfig(t, config.BackendSQL)
				cfg.Database.DSN = "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1"
				return cfg
			},
			expectError: "failed to open rule database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainerWithLogger(tt.config(t), logging.NewMockLogger())
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, c.Close()) }()

			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetRuleStore())
			assert.NotNil(t, c.GetEngine())
			assert.NotNil(t, c.GetLoader())
			assert.NotNil(t, c.GetReportGenerator())
			assert.Equal(t, []string{"camt", "csv", "mt940", "qbo", "xlsx"}, c.GetPipeline().Registry().Formats())
		})
	}
}

func TestNewContainer_SeedsDefaultRules(t *testing.T) {
	cfg := testConfig(t, config.BackendYAML)
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	defer c.Close()

	rules, err := c.GetRuleStore().ListActiveRules(context.Background(), cfg.Rules.DefaultUser)
	require.NoError(t, err)
	assert.Len(t, rules, len(store.DefaultRules()))
	assert.True(t, logger.HasEntry("INFO", "Seeded default categorization rules"))
	assert.FileExists(t, cfg.Rules.File)

	// A second container finds the file and does not seed again.
	again := logging.NewMockLogger()
	c2, err := NewContainerWithLogger(cfg, again)
	require.NoError(t, err)
	defer c2.Close()
	assert.False(t, again.HasEntry("INFO", "Seeded default categorization rules"))
}

func TestNewContainer_WithoutSeeding(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Rules.SeedDefaults = false

	c, err := NewContainerWithLogger(cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	rules, err := c.GetRuleStore().ListRules(context.Background(), cfg.Rules.DefaultUser)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestContainer_PipelineEndToEnd(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Export.RequireIBAN = true

	c, err := NewContainerWithLogger(cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	in := pipeline.Input{
		Transactions: []models.RawTransaction{{ID: "1", Date: "15-01-2024", Description: "Albert Heijn", Amount: "-85,43"}},
		Format:       "csv",
		User:         models.UserMetadata{UserID: cfg.Rules.DefaultUser},
	}
	_, err = c.GetPipeline().Run(context.Background(), in)
	require.Error(t, err, "IBAN is required by configuration")

	in.IBAN = "NL20INGB0001234567"
	out, err := c.GetPipeline().Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.MethodRuleMatch, out.Batch.Classifications["1"].Method)
	assert.Equal(t, "Boodschappen", out.Batch.Classifications["1"].CategoryName)
}
