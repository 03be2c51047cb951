package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleModules = `[
  {"externalId": "basics", "title": "Basics", "order": 1},
  {"externalId": "sorting", "title": "Sorting", "order": 2, "prerequisites": ["basics"]}
]`
	sampleLessons = `[
  {"externalId": "bubble-sort", "moduleId": "sorting", "title": "Bubble sort", "xpReward": 20},
  {"externalId": "arrays", "moduleId": "basics", "title": "Arrays", "xpReward": "15"}
]`
	sampleSteps = `[
  {"lessonId": "bubble-sort", "type": "text", "title": "Idea", "content": "Swap neighbours", "order": 1},
  {"lessonId": "bubble-sort", "type": "quiz", "title": "Check", "order": 2,
   "additionalData": {"question": "Worst case?", "options": [{"id": "1", "text": "O(n^2)", "correct": true}], "correctAnswer": "1"}},
  {"id": "arrays-intro", "lessonId": "arrays", "type": "text", "title": "Arrays", "order": 1}
]`
)

func sampleFS(t *testing.T) DirFS {
	return writeContent(t, map[string]string{
		ModulesFile: sampleModules,
		LessonsFile: sampleLessons,
		StepsFile:   sampleSteps,
	})
}

func TestJSONFileSourceLoadsContent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	c := newTestContext(t, store)

	require.NoError(t, NewJSONFileSource(sampleFS(t)).Load(ctx, c))
	assert.Empty(t, c.Report.Issues())

	stats, err := Stats(ctx, store)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Modules)
	assert.EqualValues(t, 2, stats.Lessons)
	assert.EqualValues(t, 3, stats.Steps)
	assert.Empty(t, stats.LessonsWithoutSteps)

	lessons, err := store.LessonsByExternalID(ctx, []string{"arrays"})
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, 15, lessons[0].XPReward)
}

func TestJSONFileSourceIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := sampleFS(t)

	for i := 0; i < 2; i++ {
		c := newTestContext(t, store)
		require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))
		assert.Empty(t, c.Report.Issues(), "pass %d", i)
	}

	stats, err := Stats(ctx, store)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Modules)
	assert.EqualValues(t, 2, stats.Lessons)
	assert.EqualValues(t, 3, stats.Steps)
}

func TestJSONFileSourceUpdatesExistingRows(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(sampleFS(t)).Load(ctx, c))
	before, err := store.LessonsByExternalID(ctx, []string{"bubble-sort"})
	require.NoError(t, err)
	require.Len(t, before, 1)

	changed := writeContent(t, map[string]string{
		LessonsFile: `[{"externalId": "bubble-sort", "moduleId": "sorting", "title": "Bubble sort, revisited", "xpReward": 40}]`,
	})
	c = newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(changed).Load(ctx, c))

	after, err := store.LessonsByExternalID(ctx, []string{"bubble-sort"})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, "Bubble sort, revisited", after[0].Title)
	assert.Equal(t, 40, after[0].XPReward)
}

func TestJSONFileSourceDanglingLessonWarnsOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[{"externalId": "basics", "title": "Basics"}]`,
		LessonsFile: `[
  {"externalId": "ok", "moduleId": "basics", "title": "Fine"},
  {"externalId": "orphan", "moduleId": "ghost", "title": "Orphan"}
]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))

	warnings := issuesFrom(c.Report, JSONFileSourceName, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "lesson 'orphan' references unknown module 'ghost'", warnings[0].Message)
	assert.False(t, c.Report.HasErrors())

	n, err := store.CountLessons(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestJSONFileSourceTolerantDecoding(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[
  {"ExternalId": "basics", "TITLE": "Basics", "Order": "3",},
  {"external_id": "graphs", "title": "Graphs", "order": 4},
]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))
	assert.Empty(t, c.Report.Issues())

	modules, err := store.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "basics", modules[0].ExternalID)
	assert.Equal(t, 3, modules[0].Order)
	assert.Equal(t, "graphs", modules[1].ExternalID)
}

func TestJSONFileSourceMissingDirectory(t *testing.T) {
	store, _ := newTestStore(t)
	missing := DirFS(filepath.Join(t.TempDir(), "nope"))

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(missing).Load(context.Background(), c))

	errs := issuesFrom(c.Report, JSONFileSourceName, SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "doesn't exist")
}

func TestJSONFileSourceEmptyDirectoryWarns(t *testing.T) {
	store, _ := newTestStore(t)
	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(DirFS(t.TempDir())).Load(context.Background(), c))

	warnings := issuesFrom(c.Report, JSONFileSourceName, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "no content files found")
}

func TestJSONFileSourceStepChecks(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[{"externalId": "basics", "title": "Basics"}]`,
		LessonsFile: `[{"externalId": "arrays", "moduleId": "basics", "title": "Arrays"}]`,
		StepsFile: `[
  {"id": "holo", "lessonId": "arrays", "type": "hologram", "order": 1},
  {"id": "bad-quiz", "lessonId": "arrays", "type": "quiz", "order": 2, "additionalData": {"options": []}},
  {"id": "lost", "lessonId": "nowhere", "type": "text", "order": 3}
]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))

	warnings := issuesFrom(c.Report, JSONFileSourceName, SeverityWarning)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0].Message, "unknown step type")
	assert.Contains(t, warnings[1].Message, "malformed quiz payload")
	assert.Equal(t, "step 'lost' references unknown lesson 'nowhere'", warnings[2].Message)

	// The malformed quiz is still loaded.
	n, err := store.CountSteps(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestJSONFileSourcePrerequisites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[
  {"externalId": "a", "title": "A", "prerequisites": ["b"]},
  {"externalId": "b", "title": "B", "prerequisites": ["a", "ghost"]}
]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))

	warnings := issuesFrom(c.Report, JSONFileSourceName, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "'ghost'")

	errs := issuesFrom(c.Report, JSONFileSourceName, SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "a, b")

	n, err := store.CountModules(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestPrerequisiteCycle(t *testing.T) {
	assert.Empty(t, prerequisiteCycle(map[string][]string{
		"a": nil,
		"b": {"a"},
		"c": {"a", "b", "unknown"},
	}))
	assert.Equal(t, []string{"x", "y", "z"}, prerequisiteCycle(map[string][]string{
		"x": {"z"},
		"y": {"x"},
		"z": {"y"},
		"w": nil,
	}))
}

func TestJSONFileSourceLoadsUntitledRecords(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[{"externalId": "m"}]`,
		LessonsFile: `[{"externalId": "l", "moduleId": "m"}]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))
	assert.Empty(t, c.Report.Issues())

	stats, err := Stats(ctx, store)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Modules)
	assert.EqualValues(t, 1, stats.Lessons)
}

func TestJSONFileSourceKeepsStepsWithoutIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[{"externalId": "m", "title": "M"}]`,
		LessonsFile: `[{"externalId": "l", "moduleId": "m", "title": "L"}]`,
		StepsFile: `[
  {"lessonId": "l", "type": "text", "content": "first"},
  {"lessonId": "l", "type": "text", "content": "second"}
]`,
	})

	for pass := 0; pass < 2; pass++ {
		c := newTestContext(t, store)
		require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))
		assert.Empty(t, c.Report.Issues(), "pass %d", pass)

		n, err := store.CountSteps(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n, "pass %d", pass)
	}
}

func TestJSONFileSourceWarnsOnRepeatedStepID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	fsys := writeContent(t, map[string]string{
		ModulesFile: `[{"externalId": "m", "title": "M"}]`,
		LessonsFile: `[{"externalId": "l", "moduleId": "m", "title": "L"}]`,
		StepsFile: `[
  {"id": "s", "lessonId": "l", "type": "text", "content": "first", "order": 1},
  {"id": "s", "lessonId": "l", "type": "text", "content": "second", "order": 2}
]`,
	})

	c := newTestContext(t, store)
	require.NoError(t, NewJSONFileSource(fsys).Load(ctx, c))

	warnings := issuesFrom(c.Report, JSONFileSourceName, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "step 's' repeats an earlier step id; the later record wins", warnings[0].Message)

	steps, err := store.ListSteps(ctx)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "second", steps[0].Content)
}
