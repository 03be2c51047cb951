package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeRecords parses a JSON array of objects into out (a pointer to a slice
// of record structs whose json tags are normalised keys). Field names are
// matched ignoring case, '_' and '-'. Input that strict JSON rejects, such as
// trailing commas, is retried through the YAML parser.
func decodeRecords(data []byte, out any) error {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 {
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return fmt.Errorf("parse content: %w", err)
		}
	}

	normalised := make([]any, 0, len(raw))
	for i, item := range raw {
		obj, ok := normaliseValue(item).(map[string]any)
		if !ok {
			return fmt.Errorf("record %d is not an object", i)
		}
		normalised = append(normalised, normaliseKeys(obj))
	}

	buf, err := json.Marshal(normalised)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

func normaliseKey(k string) string {
	k = strings.ToLower(k)
	k = strings.ReplaceAll(k, "_", "")
	return strings.ReplaceAll(k, "-", "")
}

// normaliseKeys rewrites top-level keys only; nested payloads keep theirs.
func normaliseKeys(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[normaliseKey(k)] = v
	}
	return out
}

// normaliseValue converts YAML's decoded shapes into ones encoding/json can
// marshal.
func normaliseValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normaliseValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normaliseValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normaliseValue(t[i])
		}
		return t
	default:
		return v
	}
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
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
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = flexInt(int(n))
	return nil
}

// rawPayload accepts an embedded object/array or a string holding JSON.
type rawPayload json.RawMessage

func (p *rawPayload) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*p = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*p = nil
			return nil
		}
		*p = rawPayload(s)
		return nil
	}
	*p = append((*p)[:0], b...)
	return nil
}

type moduleRecord struct {
	ID            flexString `json:"id"`
	ExternalID    flexString `json:"externalid" validate:"required"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Order         flexInt    `json:"order" validate:"gte=0"`
	Icon          string     `json:"icon"`
	IconColor     string     `json:"iconcolor"`
	Prerequisites []string   `json:"prerequisites"`
}

type lessonRecord struct {
	ID             flexString `json:"id"`
	ExternalID     flexString `json:"externalid" validate:"required"`
	ModuleID       flexString `json:"moduleid" validate:"required"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EstimatedTime  flexString `json:"estimatedtime"`
	XPReward       flexInt    `json:"xpreward" validate:"gte=0"`
	RequiredSkills []string   `json:"requiredskills"`
}

type stepRecord struct {
	ID             flexString `json:"id"`
	LessonID       flexString `json:"lessonid" validate:"required"`
	Type           string     `json:"type" validate:"required"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Code           string     `json:"code"`
	Language       string     `json:"language"`
	ImageURL       string     `json:"imageurl"`
	Order          flexInt    `json:"order" validate:"gte=0"`
	AdditionalData rawPayload `json:"additionaldata"`
}
