// Package container provides dependency injection for the momo-ingest application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"momoledger/momo-ingest/internal/categorizer"
	"momoledger/momo-ingest/internal/config"
	"momoledger/momo-ingest/internal/database"
	"momoledger/momo-ingest/internal/dateutils"
	"momoledger/momo-ingest/internal/extractor"
	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/pipeline"
	"momoledger/momo-ingest/internal/smsbackup"
	"momoledger/momo-ingest/internal/store"
	"momoledger/momo-ingest/internal/tracker"
	"momoledger/momo-ingest/internal/writer"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	categorizer *categorizer.Categorizer
	extractor   *extractor.Extractor

	// Storage side; nil in a preview container.
	db      *database.DB
	tracker *tracker.Tracker
	writer  *writer.Writer

	pipeline *pipeline.Pipeline
}

// NewContainer creates and wires all application dependencies:
// config → logger → database → tracker → writer → categorizer → pipeline.
func NewContainer(cfg *config.Config) (*Container, error) {
	return build(cfg, nil, true)
}

// NewPreviewContainer wires everything except storage. Its pipeline can
// only Preview.
func NewPreviewContainer(cfg *config.Config) (*Container, error) {
	return build(cfg, nil, false)
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	return build(cfg, logger, true)
}

// NewPreviewContainerWithLogger is NewPreviewContainer with an injected logger.
func NewPreviewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	return build(cfg, logger, false)
}

func build(cfg *config.Config, logger logging.Logger, withStorage bool) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	c := &Container{logger: logger, config: cfg}

	if withStorage {
		db, err := database.Open(database.Options{
			Driver:   cfg.Storage.Driver,
			DSN:      cfg.Storage.DSN,
			LogLevel: cfg.Storage.LogLevel,
			Timeout:  time.Duration(cfg.Storage.TimeoutSeconds) * time.Second,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		c.db = db
		c.tracker = tracker.New(db, logger)
		c.writer = writer.New(db, logger)
	}

	loc, err := dateutils.LoadLocation(cfg.Extraction.Timezone)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	c.store = store.NewRuleStore(cfg.Categorization.RulesFile, logger)
	cat, err := categorizer.NewCategorizerFromSource(c.store, categorizer.Options{
		MerchantPrefixes: cfg.Categorization.MerchantPrefixes,
		BankPrefixes:     cfg.Categorization.BankPrefixes,
	}, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.categorizer = cat

	c.extractor = extractor.New(logger, extractor.Options{
		Currency:      cfg.Extraction.DefaultCurrency,
		CountryCode:   cfg.Extraction.DefaultCountryCode,
		Location:      loc,
		SnippetLength: cfg.Pipeline.ErrorSnippetLength,
	})

	c.pipeline = pipeline.New(pipeline.Components{
		Reader:      smsbackup.NewReader(logger, loc),
		Filter:      smsbackup.NewFilter(cfg.Filter.Senders, cfg.Filter.Keywords),
		Extractor:   c.extractor,
		Categorizer: cat,
		Tracker:     c.tracker,
		Writer:      c.writer,
	}, pipeline.Options{
		Workers:             cfg.Pipeline.Workers,
		SequentialThreshold: cfg.Pipeline.SequentialThreshold,
		ErrorSampleSize:     cfg.Pipeline.ErrorSampleSize,
		ErrorSnippetLength:  cfg.Pipeline.ErrorSnippetLength,
	}, logger)

	logger.Debug("Container initialized successfully",
		logging.F("storage", withStorage),
		logging.F(logging.FieldDriver, cfg.Storage.Driver),
		logging.F("rules", len(cat.Rules().Rules)),
		logging.F("confidence_table", c.extractor.ConfidenceVersion()))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store the categorizer was loaded from.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDB returns the database, or nil in a preview container.
func (c *Container) GetDB() *database.DB {
	return c.db
}

// GetTracker returns the change tracker, or nil in a preview container.
func (c *Container) GetTracker() *tracker.Tracker {
	return c.tracker
}

// GetWriter returns the idempotent writer, or nil in a preview container.
func (c *Container) GetWriter() *writer.Writer {
	return c.writer
}

// GetPipeline returns the ingestion pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases the database connection.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	c.db = nil
	return nil
}
