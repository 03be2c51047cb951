package content

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/dsaquest-backend/internal/domain"
	"github.com/yungbote/dsaquest-backend/internal/domain/learning"
)

const EncodingSourceName = "CharacterEncoding"

var polishToASCII = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N",
	"Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

// FoldDiacritics replaces Polish diacritics with their ASCII base letters.
func FoldDiacritics(s string) string {
	return polishToASCII.Replace(s)
}

// EncodingSource rewrites learner-facing text to ASCII. Step code is left
// alone; payload text is rewritten structurally through the payload union.
type EncodingSource struct{}

func NewEncodingSource() *EncodingSource { return &EncodingSource{} }

func (s *EncodingSource) Name() string { return EncodingSourceName }

func (s *EncodingSource) Load(ctx context.Context, c *Context) error {
	log := c.Log.With("source", s.Name())

	var modulesChanged, lessonsChanged, stepsChanged int
	err := c.Store.InTx(ctx, func(tx Store) error {
		modules, err := tx.ListModules(ctx)
		if err != nil {
			return fmt.Errorf("list modules: %w", err)
		}
		var dirtyModules []*types.Module
		for _, m := range modules {
			if foldAll(&m.Title, &m.Description) {
				dirtyModules = append(dirtyModules, m)
			}
		}

		lessons, err := tx.ListLessons(ctx)
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		var dirtyLessons []*types.Lesson
		for _, l := range lessons {
			if foldAll(&l.Title, &l.Description, &l.EstimatedTime) {
				dirtyLessons = append(dirtyLessons, l)
			}
		}

		steps, err := tx.ListSteps(ctx)
		if err != nil {
			return fmt.Errorf("list steps: %w", err)
		}
		var dirtySteps []*types.Step
		for _, st := range steps {
			changed := foldAll(&st.Title, &st.Content)
			if foldPayload(st) {
				changed = true
			}
			if changed {
				dirtySteps = append(dirtySteps, st)
			}
		}

		if err := tx.SaveModules(ctx, dirtyModules); err != nil {
			return fmt.Errorf("save modules: %w", err)
		}
		if err := tx.SaveLessons(ctx, dirtyLessons); err != nil {
			return fmt.Errorf("save lessons: %w", err)
		}
		if err := tx.SaveSteps(ctx, dirtySteps); err != nil {
			return fmt.Errorf("save steps: %w", err)
		}
		modulesChanged, lessonsChanged, stepsChanged = len(dirtyModules), len(dirtyLessons), len(dirtySteps)
		return nil
	})
	if err != nil {
		c.Report.Errorf(s.Name(), "%v", err)
		return nil
	}

	log.Info("Folded diacritics",
		"modules", modulesChanged,
		"lessons", lessonsChanged,
		"steps", stepsChanged,
	)
	return nil
}

func foldAll(fields ...*string) bool {
	changed := false
	for _, f := range fields {
		next := FoldDiacritics(*f)
		if next != *f {
			*f = next
			changed = true
		}
	}
	return changed
}

// foldPayload leaves payloads that do not decode untouched.
func foldPayload(st *types.Step) bool {
	p, err := st.Payload()
	if err != nil || p == nil {
		return false
	}
	if !p.RewriteText(FoldDiacritics) {
		return false
	}
	encoded, err := learning.EncodePayload(st.AdditionalData, p)
	if err != nil {
		return false
	}
	st.AdditionalData = datatypes.JSON(encoded)
	return true
}
