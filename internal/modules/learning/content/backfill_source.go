package content

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
)

const (
	EmergencySourceName  = "EmergencyContent"
	StackQueueSourceName = "StackQueueAdapter"

	EmergencyModuleID = "emergency-module"
	EmergencyLessonID = "emergency-lesson"
	StackQueueLesson  = "stack-queue"
)

// LessonBackfill supplies steps for a named lesson that exists without any.
type LessonBackfill struct {
	ExternalID string
	Steps      []types.Step
	// ReportMissing records a Warning when the lesson does not exist.
	ReportMissing bool
}

// BackfillSource guarantees a minimum of learnable content and repairs known
// lessons that were loaded without steps. Lessons that already have at least
// one step are never touched.
type BackfillSource struct {
	name          string
	ensureMinimum bool
	backfills     []LessonBackfill
}

func NewBackfillSource(name string, ensureMinimum bool, backfills ...LessonBackfill) *BackfillSource {
	return &BackfillSource{name: name, ensureMinimum: ensureMinimum, backfills: backfills}
}

// NewEmergencySource creates placeholder content when no module exists and
// gives stack-queue its short fallback steps.
func NewEmergencySource() *BackfillSource {
	return NewBackfillSource(EmergencySourceName, true, LessonBackfill{
		ExternalID: StackQueueLesson,
		Steps: []types.Step{
			{Type: types.StepText, Title: "Introduction to stacks and queues", Content: "Stacks and queues are fundamental data structures.", Order: 1},
			{Type: types.StepText, Title: "Stack", Content: "A stack is a LIFO structure: the last element pushed is the first one popped.", Order: 2},
		},
	})
}

// NewStackQueueAdapter only repairs stack-queue, with its full step set.
func NewStackQueueAdapter() *BackfillSource {
	return NewBackfillSource(StackQueueSourceName, false, LessonBackfill{
		ExternalID:    StackQueueLesson,
		Steps:         stackQueueSteps(),
		ReportMissing: true,
	})
}

func (s *BackfillSource) Name() string { return s.name }

func (s *BackfillSource) Load(ctx context.Context, c *Context) error {
	log := c.Log.With("source", s.name)

	if s.ensureMinimum {
		created, err := s.ensureMinimumContent(ctx, c.Store)
		if err != nil {
			c.Report.Errorf(s.name, "ensure minimum content: %v", err)
		} else if created {
			log.Warn("No modules found, created emergency content")
			c.Report.Infof(s.name, "no modules found; created '%s'", EmergencyModuleID)
		}
	}

	for _, b := range s.backfills {
		added, err := s.backfillLesson(ctx, c, b)
		if err != nil {
			c.Report.Errorf(s.name, "backfill lesson '%s': %v", b.ExternalID, err)
			continue
		}
		if added > 0 {
			log.Warn("Backfilled lesson without steps", "lesson", b.ExternalID, "steps", added)
		}
	}
	return nil
}

func (s *BackfillSource) ensureMinimumContent(ctx context.Context, store Store) (bool, error) {
	created := false
	err := store.InTx(ctx, func(tx Store) error {
		n, err := tx.CountModules(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		module := &types.Module{
			ID:            uuid.New(),
			ExternalID:    EmergencyModuleID,
			Title:         "Data structure basics",
			Description:   "Introductory module created because no content was available",
			Order:         1,
			Prerequisites: datatypes.JSONSlice[string]{},
		}
		lesson := &types.Lesson{
			ID:             uuid.New(),
			ExternalID:     EmergencyLessonID,
			ModuleID:       module.ID,
			Title:          "Introduction to data structures",
			Description:    "Introductory lesson created because no content was available",
			EstimatedTime:  "5 min",
			XPReward:       10,
			RequiredSkills: datatypes.JSONSlice[string]{},
		}
		step := &types.Step{
			ID:       backfillStepID(EmergencyLessonID, 1),
			LessonID: lesson.ID,
			Type:     types.StepText,
			Title:    "What are data structures?",
			Content:  "Data structures are ways of organising and storing data in a computer.",
			Order:    1,
		}
		if err := tx.SaveModules(ctx, []*types.Module{module}); err != nil {
			return err
		}
		if err := tx.SaveLessons(ctx, []*types.Lesson{lesson}); err != nil {
			return err
		}
		if err := tx.SaveSteps(ctx, []*types.Step{step}); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (s *BackfillSource) backfillLesson(ctx context.Context, c *Context, b LessonBackfill) (int, error) {
	added := 0
	err := c.Store.InTx(ctx, func(tx Store) error {
		lessons, err := tx.LessonsByExternalID(ctx, []string{b.ExternalID})
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			if b.ReportMissing {
				c.Report.Warn(s.name, "lesson '%s' does not exist", b.ExternalID)
			}
			return nil
		}
		lesson := lessons[0]
		existing, err := tx.StepsByLesson(ctx, lesson.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		rows := make([]*types.Step, 0, len(b.Steps))
		for _, tmpl := range b.Steps {
			st := tmpl
			st.ID = backfillStepID(b.ExternalID, st.Order)
			st.LessonID = lesson.ID
			rows = append(rows, &st)
		}
		if err := tx.SaveSteps(ctx, rows); err != nil {
			return err
		}
		added = len(rows)
		return nil
	})
	return added, err
}

func backfillStepID(lessonExternalID string, order int) uuid.UUID {
	return uuid.NewSHA1(stepNamespace, []byte(fmt.Sprintf("backfill:%s#%s", lessonExternalID, strconv.Itoa(order))))
}

func stackQueueSteps() []types.Step {
	return []types.Step{
		{
			Type:    types.StepText,
			Title:   "Introduction to stacks and queues",
			Content: "Stacks and queues are fundamental data structures that restrict access to their elements.",
			Order:   1,
		},
		{
			Type:    types.StepText,
			Title:   "Stack",
			Content: "A stack works on the LIFO principle (Last In, First Out): the last element added is the first one removed.",
			Order:   2,
		},
		{
			Type:     types.StepCode,
			Title:    "Implementing a stack",
			Content:  "An example stack implementation in JavaScript:",
			Code:     "class Stack {\n  constructor() {\n    this.items = [];\n  }\n\n  push(element) {\n    this.items.push(element);\n  }\n\n  pop() {\n    if (this.isEmpty()) return \"Underflow\";\n    return this.items.pop();\n  }\n\n  peek() {\n    return this.items[this.items.length - 1];\n  }\n\n  isEmpty() {\n    return this.items.length === 0;\n  }\n}",
			Language: "javascript",
			Order:    3,
		},
		{
			Type:    types.StepText,
			Title:   "Queue",
			Content: "A queue works on the FIFO principle (First In, First Out): the first element added is the first one removed.",
			Order:   4,
		},
		{
			Type:     types.StepCode,
			Title:    "Implementing a queue",
			Content:  "An example queue implementation in JavaScript:",
			Code:     "class Queue {\n  constructor() {\n    this.items = [];\n  }\n\n  enqueue(element) {\n    this.items.push(element);\n  }\n\n  dequeue() {\n    if (this.isEmpty()) return \"Underflow\";\n    return this.items.shift();\n  }\n\n  front() {\n    if (this.isEmpty()) return \"Queue is empty\";\n    return this.items[0];\n  }\n\n  isEmpty() {\n    return this.items.length === 0;\n  }\n}",
			Language: "javascript",
			Order:    5,
		},
		{
			Type:           types.StepQuiz,
			Title:          "Quiz: stacks and queues",
			Content:        "Check what you know about stacks and queues:",
			AdditionalData: datatypes.JSON(`{"question":"Which data structure follows the LIFO principle?","options":[{"id":"1","text":"Stack","correct":true},{"id":"2","text":"Queue","correct":false},{"id":"3","text":"List","correct":false},{"id":"4","text":"Tree","correct":false}],"correctAnswer":"1","explanation":"A stack is LIFO (Last In, First Out): the most recently added element is removed first."}`),
			Order:          6,
		},
	}
}
