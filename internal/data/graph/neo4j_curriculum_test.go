package graph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
)

func TestModuleRecordsSkipsSelfAndEmptyPrerequisites(t *testing.T) {
	modules := []*types.Module{
		{ID: uuid.New(), ExternalID: "basics"},
		{ID: uuid.New(), ExternalID: "sorting", Prerequisites: datatypes.JSONSlice[string]{"basics", "", "sorting"}},
		nil,
		{ID: uuid.New()},
	}
	nodes, rels := moduleRecords(modules)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if len(rels) != 1 || rels[0]["from"] != "sorting" || rels[0]["to"] != "basics" {
		t.Fatalf("unexpected prerequisite edges: %+v", rels)
	}
}

func TestNilCurriculumGraphIsNoop(t *testing.T) {
	if g := NewCurriculumGraph(nil, nil); g != nil {
		t.Fatalf("expected nil graph without a client")
	}
	var g *CurriculumGraph
	if err := g.UpsertCurriculum(context.Background(), nil, nil); err != nil {
		t.Fatalf("nil graph: %v", err)
	}
}
