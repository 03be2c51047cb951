package content

import (
	"context"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
)

const GraphSourceName = "CurriculumGraph"

// GraphWriter receives the full curriculum after the relational sources ran.
type GraphWriter interface {
	UpsertCurriculum(ctx context.Context, modules []*types.Module, lessons []*types.Lesson) error
}

// GraphSource projects the loaded curriculum into a graph store. It is a no-op
// without a writer and during dry runs.
type GraphSource struct {
	writer GraphWriter
}

func NewGraphSource(w GraphWriter) *GraphSource { return &GraphSource{writer: w} }

func (s *GraphSource) Name() string { return GraphSourceName }

func (s *GraphSource) Load(ctx context.Context, c *Context) error {
	if s.writer == nil || c.DryRun {
		return nil
	}
	modules, err := c.Store.ListModules(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "list modules: %v", err)
		return nil
	}
	lessons, err := c.Store.ListLessons(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "list lessons: %v", err)
		return nil
	}
	if err := s.writer.UpsertCurriculum(ctx, modules, lessons); err != nil {
		// The relational store stays authoritative.
		c.Report.Warn(s.Name(), "graph sync failed: %v", err)
	}
	return nil
}
