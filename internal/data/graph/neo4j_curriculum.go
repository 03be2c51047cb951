package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
	"github.com/yungbote/dsaquest-backend/internal/platform/neo4jdb"
)

// CurriculumGraph mirrors modules, lessons and module prerequisites into Neo4j.
type CurriculumGraph struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewCurriculumGraph returns nil when client is nil so callers can pass the
// result straight to an optional writer field.
func NewCurriculumGraph(client *neo4jdb.Client, baseLog *logger.Logger) *CurriculumGraph {
	if client == nil || client.Driver == nil {
		return nil
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &CurriculumGraph{client: client, log: baseLog.With("graph", "CurriculumGraph")}
}

func (g *CurriculumGraph) UpsertCurriculum(ctx context.Context, modules []*types.Module, lessons []*types.Lesson) error {
	if g == nil {
		return nil
	}
	nodes, prereqs := moduleRecords(modules)
	lessonNodes := lessonRecords(lessons)

	g.ensureSchema(ctx)

	err := g.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) error {
		if len(nodes) > 0 {
			if err := run(ctx, tx, `
UNWIND $nodes AS n
MERGE (m:Module {external_id: n.external_id})
SET m += n
`, map[string]any{"nodes": nodes}); err != nil {
				return err
			}
		}
		if len(lessonNodes) > 0 {
			if err := run(ctx, tx, `
UNWIND $lessons AS l
MERGE (x:Lesson {external_id: l.external_id})
SET x += l
WITH x, l
MATCH (m:Module {id: l.module_id})
MERGE (m)-[:HAS_LESSON]->(x)
`, map[string]any{"lessons": lessonNodes}); err != nil {
				return err
			}
		}
		if len(prereqs) > 0 {
			// Prerequisites naming unknown modules are skipped by MATCH.
			if err := run(ctx, tx, `
UNWIND $rels AS r
MATCH (a:Module {external_id: r.from})
MATCH (b:Module {external_id: r.to})
MERGE (a)-[:REQUIRES]->(b)
`, map[string]any{"rels": prereqs}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("neo4j curriculum sync: %w", err)
	}
	g.log.Debug("Synced curriculum graph", "modules", len(nodes), "lessons", len(lessonNodes), "prerequisites", len(prereqs))
	return nil
}

func (g *CurriculumGraph) ensureSchema(ctx context.Context) {
	session := g.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: g.client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range []string{
		`CREATE CONSTRAINT module_external_id_unique IF NOT EXISTS FOR (m:Module) REQUIRE m.external_id IS UNIQUE`,
		`CREATE CONSTRAINT lesson_external_id_unique IF NOT EXISTS FOR (l:Lesson) REQUIRE l.external_id IS UNIQUE`,
	} {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			g.log.Warn("neo4j schema init failed (continuing)", "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func moduleRecords(modules []*types.Module) ([]map[string]any, []map[string]any) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	nodes := make([]map[string]any, 0, len(modules))
	var rels []map[string]any
	for _, m := range modules {
		if m == nil || m.ExternalID == "" {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":          m.ID.String(),
			"external_id": m.ExternalID,
			"title":       m.Title,
			"sort_order":  int64(m.Order),
			"synced_at":   now,
		})
		for _, p := range m.Prerequisites {
			if p == "" || p == m.ExternalID {
				continue
			}
			rels = append(rels, map[string]any{"from": m.ExternalID, "to": p})
		}
	}
	return nodes, rels
}

func lessonRecords(lessons []*types.Lesson) []map[string]any {
	out := make([]map[string]any, 0, len(lessons))
	for _, l := range lessons {
		if l == nil || l.ExternalID == "" || l.ModuleID == uuid.Nil {
			continue
		}
		out = append(out, map[string]any{
			"id":          l.ID.String(),
			"external_id": l.ExternalID,
			"module_id":   l.ModuleID.String(),
			"title":       l.Title,
			"xp_reward":   int64(l.XPReward),
		})
	}
	return out
}
