package app

import (
	"github.com/yungbote/dsaquest-backend/internal/data/graph"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// wireContentProvider registers the content sources in load order: files
// first, then repairs over what they wrote, then the graph mirror.
func wireContentProvider(log *logger.Logger, cfg Config, clients Clients) *content.Provider {
	p := content.NewProvider(log)

	var fsys content.ContentFS = content.DirFS(cfg.ContentDir)
	if clients.ContentBucket != nil {
		fsys = content.NewBucketFS(clients.ContentBucket, cfg.ContentPrefix)
	}
	log.Info("Content location", "source", fsys.String())

	p.Register(content.NewJSONFileSource(fsys))
	p.Register(content.NewEncodingSource())
	p.Register(content.NewEmergencySource())
	p.Register(content.NewStackQueueAdapter())
	if g := graph.NewCurriculumGraph(clients.Neo4j, log); g != nil {
		p.Register(content.NewGraphSource(g))
	}
	return p
}
