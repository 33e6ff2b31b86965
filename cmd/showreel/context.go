package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/maauso/showreel-api/internal/bootstrap"
	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/config"
)

// frameComposer is the part of *compose.Composer the CLI needs.
type frameComposer interface {
	Compose(ctx context.Context, req compose.Request) (*compose.Result, error)
}

type commandContext struct {
	logLevel string

	// newComposer builds the composer on first use; tests replace it.
	newComposer func(cfg *config.Config, logger *slog.Logger) (frameComposer, error)

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{newComposer: defaultComposer}
}

func defaultComposer(cfg *config.Config, logger *slog.Logger) (frameComposer, error) {
	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return nil, err
	}
	return deps.Composer, nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if level := strings.TrimSpace(c.logLevel); level != "" {
			cfg.LogLevel = level
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) composer() (frameComposer, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	fc, err := c.newComposer(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize composer: %w", err)
	}
	return fc, logger, nil
}
