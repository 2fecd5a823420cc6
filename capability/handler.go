package capability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hupe1980/attendeeguide/agent"
	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/logging"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

var tracer = otel.Tracer("github.com/hupe1980/attendeeguide/capability")

// Options configures a handler.
type Options struct {
	Catalog       *locale.Catalog
	Logger        logging.Logger
	Temperature   float64
	TopP          float64
	MaxIterations int
	DefaultCity   string
	KnowledgeBase string
	MinScore      float64
	MaxResults    int
}

func defaultOptions() Options {
	return Options{
		Catalog:       locale.Default(),
		Temperature:   0.3,
		TopP:          0.3,
		MaxIterations: 8,
		DefaultCity:   "Las Vegas",
	}
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Catalog == nil {
		opts.Catalog = locale.Default()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return opts
}

// runner holds what every handler needs to drive one agent invocation.
type runner struct {
	name string
	llm  model.Model
	opts Options
}

// reply runs a fresh agent over prompt. Empty output yields apology; an
// error yields errTmpl rendered with the error text.
func (r runner) reply(ctx context.Context, instructions, prompt string, tools []tool.Tool, apology, errTmpl string) string {
	ctx, span := tracer.Start(ctx, "capability."+r.name)
	defer span.End()
	span.SetAttributes(attribute.Int("tools", len(tools)))

	logger := r.opts.Logger
	logger.Info("capability.routed", "handler", r.name)

	a := agent.NewModelAgent(r.name, r.llm,
		agent.WithInstructions(agent.NewInstructionFromText(instructions)),
		agent.WithTools(tools...),
		agent.WithSampling(r.opts.Temperature, r.opts.TopP),
		agent.WithMaxIterations(r.opts.MaxIterations),
		agent.WithLogger(logger),
	)

	out, err := a.Invoke(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("capability.failed", "handler", r.name, "error", err.Error())
		return locale.Render(errTmpl, map[string]any{"Error": err.Error()})
	}
	if strings.TrimSpace(out) == "" {
		logger.Warn("capability.empty", "handler", r.name)
		return apology
	}
	return out
}

// WithCatalog sets the string catalog.
func WithCatalog(c *locale.Catalog) func(o *Options) {
	return func(o *Options) { o.Catalog = c }
}

// WithLogger sets the handler logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithSampling overrides the 0.3/0.3 handler sampling.
func WithSampling(temperature, topP float64) func(o *Options) {
	return func(o *Options) {
		o.Temperature = temperature
		o.TopP = topP
	}
}

// WithMaxIterations caps model calls per query.
func WithMaxIterations(n int) func(o *Options) {
	return func(o *Options) { o.MaxIterations = n }
}

// WithDefaultCity sets the city used when the query names none.
func WithDefaultCity(city string) func(o *Options) {
	return func(o *Options) { o.DefaultCity = city }
}

// WithKnowledge scopes the handler's retrieve tool.
func WithKnowledge(knowledgeBase string, minScore float64, maxResults int) func(o *Options) {
	return func(o *Options) {
		o.KnowledgeBase = knowledgeBase
		o.MinScore = minScore
		o.MaxResults = maxResults
	}
}
