// Package container wires the application dependencies from configuration.
// Every component receives its collaborators through its constructor; the
// container is the only place that knows the concrete types.
package container

import (
	"context"
	"fmt"
	"time"

	"bscpro/bank-export/internal/btw"
	"bscpro/bank-export/internal/camtparser"
	"bscpro/bank-export/internal/categorizer"
	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/export"
	"bscpro/bank-export/internal/extractor"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/pipeline"
	"bscpro/bank-export/internal/report"
	"bscpro/bank-export/internal/store"
	"bscpro/bank-export/internal/textextract"
)

// Container holds all application dependencies. It is immutable after
// creation; fields are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	rules      store.RuleRepository
	engine     *categorizer.Engine
	extractor  *extractor.Extractor
	exportOpts export.Options
	pipeline   *pipeline.Service
	loader     *pipeline.Loader
	reports    *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	rules, err := openRuleStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Rules.SeedDefaults && cfg.Rules.Backend != config.BackendSQL {
		if err := seedIfEmpty(rules, cfg.Rules.DefaultUser, logger); err != nil {
			_ = rules.Close()
			return nil, err
		}
	}

	engine := categorizer.NewEngine(rules, btw.NewDetector(), logger)
	ext := extractor.New(logger)

	exportOpts := export.Options{
		Clock:           export.WallClock,
		RequireIBAN:     cfg.Export.RequireIBAN,
		PlaceholderIBAN: cfg.Export.PlaceholderIBAN,
		OwnerName:       cfg.Export.OwnerName,
		DefaultBank:     cfg.Export.Bank,
	}

	pdf := textextract.NewPDFToText(
		cfg.Extraction.PDFToTextPath,
		time.Duration(cfg.Extraction.TimeoutSeconds)*time.Second,
		logger)

	c := &Container{
		logger:     logger,
		config:     cfg,
		rules:      rules,
		engine:     engine,
		extractor:  ext,
		exportOpts: exportOpts,
		loader:     pipeline.NewLoader(textextract.NewFileReader(pdf), camtparser.NewParser(logger), logger),
		reports:    report.NewGenerator(logger),
	}
	c.pipeline = c.PipelineWithOptions(exportOpts)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldStore, Value: cfg.Rules.Backend},
		logging.Field{Key: "formats", Value: c.pipeline.Registry().Formats()})

	return c, nil
}

func openRuleStore(cfg *config.Config, logger logging.Logger) (store.RuleRepository, error) {
	switch cfg.Rules.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendYAML:
		return store.NewYAMLStore(cfg.Rules.File, logger), nil
	case config.BackendSQL:
		s, err := store.OpenSQLStore(cfg.Database.DSN, cfg.Database.LogQueries, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown rules backend: %s", cfg.Rules.Backend)
	}
}

// seedIfEmpty gives a user without any rules the default rule set.
func seedIfEmpty(rules store.RuleRepository, userID string, logger logging.Logger) error {
	ctx := context.Background()
	existing, err := rules.ListRules(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read rules: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	added, err := rules.SeedDefaults(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to seed default rules: %w", err)
	}
	logger.Info("Seeded default categorization rules",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: added})
	return nil
}

// PipelineWithOptions returns a pipeline sharing the container's extractor
// and engine but formatting with opts.
func (c *Container) PipelineWithOptions(opts export.Options) *pipeline.Service {
	return pipeline.NewService(c.extractor, c.engine, export.NewRegistry(opts), c.logger)
}

// GetLogger returns the container's logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRuleStore returns the configured rule backend.
func (c *Container) GetRuleStore() store.RuleRepository {
	return c.rules
}

// GetEngine returns the categorization engine.
func (c *Container) GetEngine() *categorizer.Engine {
	return c.engine
}

// GetExportOptions returns the configured formatter options.
func (c *Container) GetExportOptions() export.Options {
	return c.exportOpts
}

// GetPipeline returns the pipeline built with the configured options.
func (c *Container) GetPipeline() *pipeline.Service {
	return c.pipeline
}

// GetLoader returns the input file loader.
func (c *Container) GetLoader() *pipeline.Loader {
	return c.loader
}

// GetReportGenerator returns the summary report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close releases the rule store.
func (c *Container) Close() error {
	if err := c.rules.Close(); err != nil {
		return fmt.Errorf("failed to close rule store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
