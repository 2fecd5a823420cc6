package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/attendeeguide/capability"
	"github.com/hupe1980/attendeeguide/config"
	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/memory"
	"github.com/hupe1980/attendeeguide/memory/sqlite"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/model/anthropic"
	"github.com/hupe1980/attendeeguide/model/gemini"
	"github.com/hupe1980/attendeeguide/model/ollama"
	"github.com/hupe1980/attendeeguide/model/openai"
	"github.com/hupe1980/attendeeguide/openmeteo"
	"github.com/hupe1980/attendeeguide/overpass"
	"github.com/hupe1980/attendeeguide/session"
	"github.com/hupe1980/attendeeguide/supervisor"
)

// app holds the wired object graph for one process.
type app struct {
	cfg     config.Config
	logger  *logging.GuideLogger
	catalog *locale.Catalog
	hub     *supervisor.Hub
	closers []func() error
}

// Close releases durable resources in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newLogger(cfg config.Config) *logging.GuideLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: "guide",
	})
}

// build wires the hub from cfg. A nil llm selects the configured provider.
func build(ctx context.Context, cfg config.Config, llm model.Model) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  newLogger(cfg),
		catalog: locale.For(cfg.Locale),
	}

	if llm == nil {
		m, err := newModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		llm = m
	}

	provider, err := a.memoryProvider()
	if err != nil {
		return nil, err
	}

	var retriever knowledge.Retriever
	if cfg.KnowledgeFile != "" {
		ix, err := knowledge.LoadFile(cfg.KnowledgeFile)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("load knowledge: %w", err)
		}
		retriever = ix
		a.logger.Info("guide.knowledge.loaded", "file", cfg.KnowledgeFile, "bases", ix.Bases())
	}

	geo := openmeteo.NewClient(func(o *openmeteo.Options) {
		o.Language = a.catalog.Lang
		o.Timezone = cfg.Timezone
		o.GeocodeTimeout = cfg.GeocodeTimeout
		o.Logger = a.logger.WithComponent("openmeteo")
	})
	venues := overpass.NewClient(func(o *overpass.Options) {
		o.Timeout = cfg.VenueTimeout
		o.Logger = a.logger.WithComponent("overpass")
	})

	handlerOpts := []func(o *capability.Options){
		capability.WithCatalog(a.catalog),
		capability.WithLogger(a.logger.WithComponent("capability")),
		capability.WithSampling(cfg.HandlerTemperature, cfg.HandlerTopP),
		capability.WithMaxIterations(cfg.MaxIterations),
		capability.WithDefaultCity(cfg.DefaultCity),
		capability.WithKnowledge(cfg.KnowledgeBase, cfg.KnowledgeMinScore, cfg.KnowledgeMaxResults),
	}

	registry, err := capability.NewRegistry(capability.Standard(
		capability.NewWeather(llm, geo, geo, retriever, handlerOpts...),
		capability.NewDining(llm, geo, venues, retriever, handlerOpts...),
		capability.NewSessionPlanning(llm, retriever, handlerOpts...),
	)...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	supervisorLogger := a.logger.WithComponent("supervisor")
	a.hub = supervisor.NewHub(llm, registry, provider,
		session.NewInMemoryStore(session.WithLogger(supervisorLogger)),
		supervisor.WithHubCatalog(a.catalog),
		supervisor.WithHubLogger(supervisorLogger),
		supervisor.WithDigestCap(cfg.DigestCap),
		supervisor.WithDispatcherOptions(
			supervisor.WithSampling(cfg.SupervisorTemperature, cfg.SupervisorTopP),
			supervisor.WithMaxIterations(cfg.MaxIterations),
			supervisor.WithProfile(func(b *memory.Bridge) capability.Handler {
				return capability.NewAttendeeProfile(llm, b, handlerOpts...)
			}),
		),
	)
	return a, nil
}

func (a *app) memoryProvider() (memory.Provider, error) {
	switch a.cfg.MemoryBackend {
	case config.MemorySQLite:
		store, err := sqlite.Open(a.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open memory store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		a.logger.Info("guide.memory.sqlite", "path", a.cfg.SQLitePath)
		return store, nil
	default:
		return memory.NewInMemoryStore(), nil
	}
}

// newModel selects the model adapter for cfg.Provider.
func newModel(ctx context.Context, cfg config.Config) (model.Model, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAnthropic:
		optFns := []func(o *anthropic.Options){func(o *anthropic.Options) { o.APIKey = cfg.AnthropicAPIKey }}
		if cfg.Model != "" {
			optFns = append(optFns, anthropic.WithModel(cfg.Model))
		}
		return anthropic.NewModel(optFns...), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			o.BaseURL = cfg.OpenAIBaseURL
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderGemini:
		m, err := gemini.NewModel(ctx, cfg.GeminiAPIKey, func(o *gemini.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderOllama:
		m, err := ollama.NewModel(func(o *ollama.Options) {
			o.BaseURL = cfg.OllamaHost
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
