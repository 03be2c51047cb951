package content

import "context"

// ContentStats is the admin stats view of the content tables.
type ContentStats struct {
	Modules             int64    `json:"modules"`
	Lessons             int64    `json:"lessons"`
	Steps               int64    `json:"steps"`
	LessonsWithoutSteps []string `json:"lessonsWithoutSteps"`
}

func Stats(ctx context.Context, store Store) (*ContentStats, error) {
	var out ContentStats
	var err error
	if out.Modules, err = store.CountModules(ctx); err != nil {
		return nil, err
	}
	if out.Lessons, err = store.CountLessons(ctx); err != nil {
		return nil, err
	}
	if out.Steps, err = store.CountSteps(ctx); err != nil {
		return nil, err
	}
	empty, err := store.LessonsWithoutSteps(ctx)
	if err != nil {
		return nil, err
	}
	out.LessonsWithoutSteps = make([]string, 0, len(empty))
	for _, l := range empty {
		out.LessonsWithoutSteps = append(out.LessonsWithoutSteps, l.ExternalID)
	}
	return &out, nil
}
