package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/domain/learning"
)

const (
	JSONFileSourceName = "JsonFile"

	ModulesFile = "modules.json"
	LessonsFile = "lessons.json"
	StepsFile   = "steps.json"
)

// stepNamespace seeds deterministic step ids for records without a UUID.
var stepNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("dsaquest:content:step"))

// JSONFileSource upserts modules, then lessons, then steps from the three
// content files. Modules and lessons match existing rows by external id;
// steps by primary key.
type JSONFileSource struct {
	fsys ContentFS
}

func NewJSONFileSource(fsys ContentFS) *JSONFileSource {
	return &JSONFileSource{fsys: fsys}
}

func (s *JSONFileSource) Name() string { return JSONFileSourceName }

func (s *JSONFileSource) Load(ctx context.Context, c *Context) error {
	log := c.Log.With("source", s.Name(), "root", s.fsys.String())

	exists, err := s.fsys.Root(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "cannot access content root %s: %v", s.fsys, err)
		return nil
	}
	if !exists {
		c.Report.Errorf(s.Name(), "directory %s doesn't exist", s.fsys)
		return nil
	}

	found := 0
	for _, pass := range []struct {
		file string
		load func(context.Context, *Context, []byte)
	}{
		{ModulesFile, s.loadModules},
		{LessonsFile, s.loadLessons},
		{StepsFile, s.loadSteps},
	} {
		data, err := s.fsys.ReadFile(ctx, pass.file)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("Content file not present", "file", pass.file)
			continue
		}
		if err != nil {
			c.Report.Errorf(s.Name(), "%s: %v", pass.file, err)
			continue
		}
		found++
		pass.load(ctx, c, data)
	}

	if found == 0 {
		c.Report.Warn(s.Name(), "no content files found in %s", s.fsys)
	}
	return nil
}

func (s *JSONFileSource) loadModules(ctx context.Context, c *Context, data []byte) {
	var records []moduleRecord
	if err := decodeRecords(data, &records); err != nil {
		c.Report.Errorf(s.Name(), "%s: %v", ModulesFile, err)
		return
	}
	if len(records) == 0 {
		return
	}

	existing, err := c.Store.ListModules(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "%s: list modules: %v", ModulesFile, err)
		return
	}
	byExt := make(map[string]*types.Module, len(existing))
	for _, m := range existing {
		byExt[m.ExternalID] = m
	}

	pending := map[string]*types.Module{}
	var order []string
	for i, rec := range records {
		if msg := validateRecord(rec); msg != "" {
			c.Report.Warn(s.Name(), "module #%d (%q) skipped: %s", i, rec.ExternalID, msg)
			continue
		}
		ext := string(rec.ExternalID)
		incoming := &types.Module{
			Title:         rec.Title,
			Description:   rec.Description,
			Order:         int(rec.Order),
			Icon:          rec.Icon,
			IconColor:     rec.IconColor,
			Prerequisites: cleanStrings(rec.Prerequisites),
		}
		target, ok := pending[ext]
		if !ok {
			target = byExt[ext]
		}
		if target == nil {
			target = &types.Module{ExternalID: ext}
			if id, err := uuid.Parse(string(rec.ID)); err == nil {
				target.ID = id
			} else {
				target.ID = uuid.New()
			}
		}
		target.ApplyFrom(incoming)
		if _, seen := pending[ext]; !seen {
			order = append(order, ext)
		}
		pending[ext] = target
		byExt[ext] = target
	}

	graph := make(map[string][]string, len(byExt))
	for ext, m := range byExt {
		graph[ext] = m.Prerequisites
	}
	for _, ext := range order {
		for _, dep := range pending[ext].Prerequisites {
			if _, ok := byExt[dep]; !ok {
				c.Report.Warn(s.Name(), "module '%s' lists unknown prerequisite '%s'", ext, dep)
			}
		}
	}
	if cycle := prerequisiteCycle(graph); len(cycle) > 0 {
		c.Report.Errorf(s.Name(), "prerequisite cycle involving modules: %s", strings.Join(cycle, ", "))
	}

	rows := make([]*types.Module, 0, len(order))
	for _, ext := range order {
		rows = append(rows, pending[ext])
	}
	if err := c.Store.InTx(ctx, func(tx Store) error { return tx.SaveModules(ctx, rows) }); err != nil {
		c.Report.Errorf(s.Name(), "%s: save modules: %v", ModulesFile, err)
	}
}

func (s *JSONFileSource) loadLessons(ctx context.Context, c *Context, data []byte) {
	var records []lessonRecord
	if err := decodeRecords(data, &records); err != nil {
		c.Report.Errorf(s.Name(), "%s: %v", LessonsFile, err)
		return
	}
	if len(records) == 0 {
		return
	}

	modules, err := c.Store.ListModules(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "%s: list modules: %v", LessonsFile, err)
		return
	}
	moduleIDs := make(map[string]uuid.UUID, len(modules)*2)
	for _, m := range modules {
		moduleIDs[m.ExternalID] = m.ID
		moduleIDs[m.ID.String()] = m.ID
	}

	existing, err := c.Store.ListLessons(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "%s: list lessons: %v", LessonsFile, err)
		return
	}
	byExt := make(map[string]*types.Lesson, len(existing))
	for _, l := range existing {
		byExt[l.ExternalID] = l
	}

	pending := map[string]*types.Lesson{}
	var order []string
	for i, rec := range records {
		if msg := validateRecord(rec); msg != "" {
			c.Report.Warn(s.Name(), "lesson #%d (%q) skipped: %s", i, rec.ExternalID, msg)
			continue
		}
		ext := string(rec.ExternalID)
		moduleID, ok := moduleIDs[resolveKey(string(rec.ModuleID))]
		if !ok {
			c.Report.Warn(s.Name(), "lesson '%s' references unknown module '%s'", ext, rec.ModuleID)
			continue
		}

		incoming := &types.Lesson{
			Title:          rec.Title,
			Description:    rec.Description,
			ModuleID:       moduleID,
			EstimatedTime:  string(rec.EstimatedTime),
			XPReward:       int(rec.XPReward),
			RequiredSkills: cleanStrings(rec.RequiredSkills),
		}
		target, seen := pending[ext]
		if !seen {
			target = byExt[ext]
		}
		if target == nil {
			target = &types.Lesson{ExternalID: ext}
			if id, err := uuid.Parse(string(rec.ID)); err == nil {
				target.ID = id
			} else {
				target.ID = uuid.New()
			}
		}
		target.ApplyFrom(incoming)
		if !seen {
			order = append(order, ext)
		}
		pending[ext] = target
	}

	rows := make([]*types.Lesson, 0, len(order))
	for _, ext := range order {
		rows = append(rows, pending[ext])
	}
	if err := c.Store.InTx(ctx, func(tx Store) error { return tx.SaveLessons(ctx, rows) }); err != nil {
		c.Report.Errorf(s.Name(), "%s: save lessons: %v", LessonsFile, err)
	}
}

func (s *JSONFileSource) loadSteps(ctx context.Context, c *Context, data []byte) {
	var records []stepRecord
	if err := decodeRecords(data, &records); err != nil {
		c.Report.Errorf(s.Name(), "%s: %v", StepsFile, err)
		return
	}
	if len(records) == 0 {
		return
	}

	lessons, err := c.Store.ListLessons(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "%s: list lessons: %v", StepsFile, err)
		return
	}
	lessonByKey := make(map[string]*types.Lesson, len(lessons)*2)
	for _, l := range lessons {
		lessonByKey[l.ExternalID] = l
		lessonByKey[l.ID.String()] = l
	}

	existing, err := c.Store.ListSteps(ctx)
	if err != nil {
		c.Report.Errorf(s.Name(), "%s: list steps: %v", StepsFile, err)
		return
	}
	byID := make(map[uuid.UUID]*types.Step, len(existing))
	for _, st := range existing {
		byID[st.ID] = st
	}

	pending := map[uuid.UUID]*types.Step{}
	positions := map[string]int{}
	var order []uuid.UUID
	for i, rec := range records {
		label := stepLabel(i, rec)
		typ, known := learning.ParseStepType(rec.Type)
		if !known {
			c.Report.Warn(s.Name(), "%s skipped: unknown step type %q", label, rec.Type)
			continue
		}
		if msg := validateRecord(rec); msg != "" {
			c.Report.Warn(s.Name(), "%s skipped: %s", label, msg)
			continue
		}
		lesson, ok := lessonByKey[resolveKey(string(rec.LessonID))]
		if !ok {
			c.Report.Warn(s.Name(), "%s references unknown lesson '%s'", label, rec.LessonID)
			continue
		}

		payload := []byte(rec.AdditionalData)
		if len(payload) > 0 && !json.Valid(payload) {
			c.Report.Warn(s.Name(), "%s has a payload that is not valid JSON; payload dropped", label)
			payload = nil
		}
		if learning.HasPayload(typ) && len(payload) > 0 {
			if err := ValidatePayload(typ, payload); err != nil {
				c.Report.Warn(s.Name(), "%s has a malformed %s payload: %v", label, typ, err)
			}
		}

		id := stepID(rec, lesson, positions)
		incoming := &types.Step{
			LessonID: lesson.ID,
			Type:     typ,
			Title:    rec.Title,
			Content:  rec.Content,
			Code:     rec.Code,
			Language: rec.Language,
			ImageURL: rec.ImageURL,
			Order:    int(rec.Order),
		}
		if len(payload) > 0 {
			incoming.AdditionalData = datatypes.JSON(payload)
		}

		target, seen := pending[id]
		if seen {
			c.Report.Warn(s.Name(), "%s repeats an earlier step id; the later record wins", label)
		} else {
			target = byID[id]
		}
		if target == nil {
			target = &types.Step{ID: id}
		}
		target.ApplyFrom(incoming)
		if !seen {
			order = append(order, id)
		}
		pending[id] = target
	}

	rows := make([]*types.Step, 0, len(order))
	for _, id := range order {
		rows = append(rows, pending[id])
	}
	if err := c.Store.InTx(ctx, func(tx Store) error { return tx.SaveSteps(ctx, rows) }); err != nil {
		c.Report.Errorf(s.Name(), "%s: save steps: %v", StepsFile, err)
	}
}

// resolveKey canonicalises parent references: a UUID in any spelling maps to
// its canonical form, anything else is an external id and is used as is.
func resolveKey(ref string) string {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id.String()
	}
	return ref
}

// stepID keeps a step's identity stable across reloads. Steps without an id
// are keyed by lesson and order; positions numbers repeats of the same key so
// they stay distinct rows.
func stepID(rec stepRecord, lesson *types.Lesson, positions map[string]int) uuid.UUID {
	raw := strings.TrimSpace(string(rec.ID))
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	if raw != "" {
		return uuid.NewSHA1(stepNamespace, []byte("id:"+raw))
	}
	key := lesson.ExternalID + "#" + strconv.Itoa(int(rec.Order))
	n := positions[key]
	positions[key] = n + 1
	if n > 0 {
		key += "#" + strconv.Itoa(n)
	}
	return uuid.NewSHA1(stepNamespace, []byte(key))
}

func stepLabel(i int, rec stepRecord) string {
	if rec.ID != "" {
		return fmt.Sprintf("step '%s'", rec.ID)
	}
	return fmt.Sprintf("step #%d", i)
}

func cleanStrings(in []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
