package capability

import (
	"context"

	"github.com/hupe1980/attendeeguide/knowledge"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/tool"
)

var _ Handler = (*Dining)(nil)

// Dining answers restaurant questions.
type Dining struct {
	runner
	geo       Geocoder
	venues    VenueSearcher
	retriever knowledge.Retriever
}

// NewDining creates the dining handler. retriever may be nil.
func NewDining(llm model.Model, geo Geocoder, venues VenueSearcher, retriever knowledge.Retriever, optFns ...func(o *Options)) *Dining {
	return &Dining{
		runner:    runner{name: "Dining Agent", llm: llm, opts: applyOptions(optFns)},
		geo:       geo,
		venues:    venues,
		retriever: retriever,
	}
}

// Tools returns the handler's toolset.
func (d *Dining) Tools() []tool.Tool {
	c, city := d.opts.Catalog, d.opts.DefaultCity
	tools := []tool.Tool{
		NewCoordinatesTool(d.geo, c, city),
		NewRestaurantSearchTool(d.geo, d.venues, c, city),
	}
	return append(tools, retrieveTool(d.retriever, "retrieve_dining_info", "dining", d.opts)...)
}

// Handle implements Handler.
func (d *Dining) Handle(ctx context.Context, q Query) string {
	c := d.opts.Catalog
	return d.reply(ctx, c.DiningInstructions, RewriteDining(c, q.Text, d.opts.DefaultCity), d.Tools(), c.DiningApology, c.DiningError)
}
