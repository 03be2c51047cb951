package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/dsaquest-backend/internal/data/repos/testutil"
	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"gorm.io/datatypes"
)

func TestModuleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewModuleRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.Module{
		{ExternalID: "arrays", Title: "Arrays", Order: 2},
		{ExternalID: "basics", Title: "Basics", Order: 1},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create: expected 2 modules, got %d", len(created))
	}

	listed, err := repo.List(ctx, tx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 || listed[0].ExternalID != "basics" {
		t.Fatalf("List: unexpected order: %+v", listed)
	}

	byExt, err := repo.GetByExternalIDs(ctx, tx, []string{"arrays", "missing"})
	if err != nil {
		t.Fatalf("GetByExternalIDs: %v", err)
	}
	if len(byExt) != 1 || byExt[0].ID != created[0].ID {
		t.Fatalf("GetByExternalIDs: unexpected result: %+v", byExt)
	}

	updated := *byExt[0]
	updated.Title = "Arrays and Lists"
	updated.Prerequisites = datatypes.JSONSlice[string]{"basics"}
	if err := repo.Upsert(ctx, tx, []*types.Module{&updated}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{updated.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Arrays and Lists" || len(got[0].Prerequisites) != 1 {
		t.Fatalf("Upsert: row not updated: %+v", got)
	}

	n, err := repo.Count(ctx, tx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count: expected 2 after upsert, got %d", n)
	}
}
