package content

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// ProviderSource is the issue source used for failures caught by Provider.
const ProviderSource = "ContentProvider"

var tracer = otel.Tracer("github.com/yungbote/dsaquest-backend/internal/modules/learning/content")

// Source is one idempotent load pass. Implementations record their own
// failures on c.Report and return nil; a returned error or a panic is caught
// by Provider.
type Source interface {
	Name() string
	Load(ctx context.Context, c *Context) error
}

// Provider runs registered sources strictly in registration order.
type Provider struct {
	log *logger.Logger

	mu      sync.RWMutex
	sources []Source
}

func NewProvider(baseLog *logger.Logger) *Provider {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Provider{log: baseLog.With("service", "ContentProvider")}
}

func (p *Provider) Register(src Source) {
	if src == nil {
		return
	}
	p.mu.Lock()
	p.sources = append(p.sources, src)
	p.mu.Unlock()
	p.log.Info("Registered content source", "source", src.Name())
}

func (p *Provider) Sources() []Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Source, len(p.sources))
	copy(out, p.sources)
	return out
}

// LoadAll never returns early: a failing source is recorded and the next one
// still runs. The caller inspects c.Report.
func (p *Provider) LoadAll(ctx context.Context, c *Context) {
	sources := p.Sources()
	p.log.Info("Starting content load", "sources", len(sources), "dry_run", c.DryRun)

	ctx, span := tracer.Start(ctx, "content.LoadAll")
	defer span.End()

	for _, src := range sources {
		p.runSource(ctx, c, src)
	}

	summary := c.Report.Summary()
	span.SetAttributes(
		attribute.Int("content.issues", summary.IssueCount),
		attribute.Int("content.errors", summary.ErrorCount),
	)
	p.log.Info("Finished content load",
		"issues", summary.IssueCount,
		"errors", summary.ErrorCount,
		"warnings", summary.WarningCount,
	)
}

func (p *Provider) runSource(ctx context.Context, c *Context, src Source) {
	name := src.Name()
	ctx, span := tracer.Start(ctx, "content.source."+name)
	defer span.End()

	fail := func(msg string) {
		c.Report.Errorf(ProviderSource, "Error loading content from %s: %s", name, msg)
		span.SetStatus(codes.Error, msg)
		p.log.Error("Content source failed", "source", name, "error", msg)
	}

	defer func() {
		if r := recover(); r != nil {
			fail(fmt.Sprint(r))
		}
	}()

	p.log.Debug("Loading content source", "source", name)
	if err := src.Load(ctx, c); err != nil {
		fail(err.Error())
	}
}
