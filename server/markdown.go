package server

import (
	"strings"
	"time"

	"github.com/hupe1980/attendeeguide/locale"
	"github.com/hupe1980/attendeeguide/supervisor"
)

// FormatMarkdown renders an envelope as a standalone markdown plan.
func FormatMarkdown(c *locale.Catalog, env supervisor.Envelope, prompt string, now time.Time) string {
	var b strings.Builder

	b.WriteString(c.PlanTitle + "\n\n")
	b.WriteString(c.PlanGenerated + ": " + now.UTC().Format("2006-01-02 15:04:05 UTC") + "\n\n")
	b.WriteString(c.PlanQuestion + "\n\n")
	b.WriteString(prompt + "\n\n---\n\n")
	b.WriteString(c.PlanAnswer + "\n\n")

	if len(env.Messages) == 0 {
		b.WriteString(c.PlanEmpty + "\n\n")
	}
	for _, m := range env.Messages {
		b.WriteString(m.Content + "\n\n")
		if m.Agent != "" {
			b.WriteString(locale.Render(c.PlanBy, map[string]any{"Agent": m.Agent}) + "\n\n")
		}
	}

	b.WriteString("\n---\n\n")
	b.WriteString(c.PlanFooter + "\n")
	return b.String()
}
