package learning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Payload is the typed form of Step.AdditionalData. Exactly one variant
// exists per payload-carrying step type; text/image/code steps carry none.
type Payload interface {
	Kind() StepType
	// RewriteText applies fn to every learner-facing string field and
	// reports whether any value changed.
	RewriteText(fn func(string) string) bool
}

// FlexString holds ids and answers that content authors write either as a
// JSON string or as a number. It always encodes as a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

type QuizOption struct {
	ID      FlexString `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

type QuizPayload struct {
	Question      string       `json:"question"`
	Options       []QuizOption `json:"options"`
	CorrectAnswer FlexString   `json:"correctAnswer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
}

// ListItem is an object item or, in interactive steps, a bare string. Bare
// items re-encode as bare strings.
type ListItem struct {
	ID          FlexString `json:"id,omitempty"`
	Text        string     `json:"text"`
	Description string     `json:"description,omitempty"`

	bare bool
}

type listItemJSON ListItem

func (it *ListItem) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*it = ListItem{Text: s, bare: true}
		return nil
	}
	var v listItemJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*it = ListItem(v)
	return nil
}

func (it ListItem) MarshalJSON() ([]byte, error) {
	if it.bare {
		return json.Marshal(it.Text)
	}
	return json.Marshal(listItemJSON(it))
}

type InteractivePayload struct {
	Items           []ListItem `json:"items"`
	Hint            string     `json:"hint,omitempty"`
	TaskDescription string     `json:"taskDescription,omitempty"`
	Description     string     `json:"description,omitempty"`
}

type TestCase struct {
	ID             FlexString `json:"id,omitempty"`
	Input          string     `json:"input"`
	ExpectedOutput string     `json:"expectedOutput"`
	Description    string     `json:"description,omitempty"`
}

// CodingPayload backs both "coding" and "challenge" steps.
type CodingPayload struct {
	Variant     StepType   `json:"-"`
	InitialCode string     `json:"initialCode,omitempty"`
	Language    string     `json:"language,omitempty"`
	TestCases   []TestCase `json:"testCases,omitempty"`
	Hint        string     `json:"hint,omitempty"`
	Solution    string     `json:"solution,omitempty"`
}

type VideoPayload struct {
	URL              string  `json:"url"`
	Duration         float64 `json:"duration,omitempty"`
	RequireFullWatch bool    `json:"requireFullWatch,omitempty"`
}

// ListPayload is stored either as a bare array of items or as {"items": [...]}.
type ListPayload struct {
	Items []ListItem `json:"items"`
}

func (*QuizPayload) Kind() StepType        { return StepQuiz }
func (*InteractivePayload) Kind() StepType { return StepInteractive }
func (*VideoPayload) Kind() StepType       { return StepVideo }
func (*ListPayload) Kind() StepType        { return StepList }
func (p *CodingPayload) Kind() StepType {
	if p.Variant == StepChallenge {
		return StepChallenge
	}
	return StepCoding
}

func (p *QuizPayload) RewriteText(fn func(string) string) bool {
	changed := rewrite(&p.Question, fn)
	changed = rewrite(&p.Explanation, fn) || changed
	for i := range p.Options {
		changed = rewrite(&p.Options[i].Text, fn) || changed
	}
	return changed
}

func (p *InteractivePayload) RewriteText(fn func(string) string) bool {
	changed := rewrite(&p.Hint, fn)
	changed = rewrite(&p.TaskDescription, fn) || changed
	changed = rewrite(&p.Description, fn) || changed
	return rewriteItems(p.Items, fn) || changed
}

func (p *CodingPayload) RewriteText(fn func(string) string) bool {
	changed := rewrite(&p.Hint, fn)
	for i := range p.TestCases {
		changed = rewrite(&p.TestCases[i].Description, fn) || changed
	}
	return changed
}

func (p *VideoPayload) RewriteText(func(string) string) bool { return false }

func (p *ListPayload) RewriteText(fn func(string) string) bool {
	return rewriteItems(p.Items, fn)
}

// Check reports whether answer matches the correct option, by id or text.
func (p *QuizPayload) Check(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	if want := strings.TrimSpace(string(p.CorrectAnswer)); want != "" {
		return answer == want
	}
	for _, o := range p.Options {
		if o.Correct && (answer == string(o.ID) || answer == o.Text) {
			return true
		}
	}
	return false
}

func rewrite(s *string, fn func(string) string) bool {
	if *s == "" {
		return false
	}
	next := fn(*s)
	if next == *s {
		return false
	}
	*s = next
	return true
}

func rewriteItems(items []ListItem, fn func(string) string) bool {
	changed := false
	for i := range items {
		changed = rewrite(&items[i].Text, fn) || changed
		changed = rewrite(&items[i].Description, fn) || changed
	}
	return changed
}

// HasPayload reports whether steps of type t carry AdditionalData.
func HasPayload(t StepType) bool {
	switch t {
	case StepQuiz, StepInteractive, StepCoding, StepChallenge, StepVideo, StepList:
		return true
	default:
		return false
	}
}

// DecodePayload returns (nil, nil) for step types without a payload and for
// empty documents.
func DecodePayload(t StepType, raw []byte) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if !HasPayload(t) || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var p Payload
	switch t {
	case StepQuiz:
		p = &QuizPayload{}
	case StepInteractive:
		p = &InteractivePayload{}
	case StepCoding, StepChallenge:
		p = &CodingPayload{Variant: t}
	case StepVideo:
		p = &VideoPayload{}
	case StepList:
		lp := &ListPayload{}
		if raw[0] == '[' {
			if err := json.Unmarshal(raw, &lp.Items); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", t, err)
			}
			return lp, nil
		}
		p = lp
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}

// EncodePayload serialises p. When original is a JSON object, keys unknown to
// the variant are carried over so a rewrite never drops data.
func EncodePayload(original []byte, p Payload) ([]byte, error) {
	if p == nil {
		return original, nil
	}
	original = bytes.TrimSpace(original)

	if lp, ok := p.(*ListPayload); ok && len(original) > 0 && original[0] == '[' {
		return json.Marshal(lp.Items)
	}

	encoded, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	if len(original) == 0 || original[0] != '{' {
		return encoded, nil
	}

	var base map[string]json.RawMessage
	if err := json.Unmarshal(original, &base); err != nil {
		return encoded, nil
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &overlay); err != nil {
		return nil, err
	}
	// Drop case-variant keys of the overlay so the typed value wins.
	for k := range base {
		for ok := range overlay {
			if k != ok && strings.EqualFold(k, ok) {
				delete(base, k)
			}
		}
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}
