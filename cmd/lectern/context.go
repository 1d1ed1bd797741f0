package main

import (
	"log/slog"
	"strings"
	"sync"

	"lectern/internal/cards"
	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/pipeline"
	"lectern/internal/progress"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*cards.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cards.Open(cfg.DatabasePath())
}

// newWorker assembles a pipeline worker. Stage events flow through a
// buffered channel drained here into the logger, so a slow log sink never
// stalls the pipeline. The returned cleanup stops the drain and closes the
// store when one was opened; callers must defer it.
func (c *commandContext) newWorker(withStore bool) (*pipeline.Worker, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	events := progress.NewChannel(128)
	sink := progress.NewLogger(logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events.Events() {
			sink.Publish(event)
		}
	}()

	opts := []pipeline.Option{pipeline.WithReporter(events)}
	var store *cards.Store
	if withStore {
		store, err = c.openStore()
		if err != nil {
			events.Close()
			<-done
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithStore(store))
	}
	cleanup := func() {
		events.Close()
		<-done
		if store != nil {
			_ = store.Close()
		}
	}
	return pipeline.New(cfg, logger, opts...), cleanup, nil
}
