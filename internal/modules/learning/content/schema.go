package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yungbote/dsaquest-backend/internal/domain/learning"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var schemaFileByType = map[learning.StepType]string{
	learning.StepQuiz:        "quiz.json",
	learning.StepInteractive: "interactive.json",
	learning.StepCoding:      "coding.json",
	learning.StepChallenge:   "coding.json",
	learning.StepVideo:       "video.json",
	learning.StepList:        "list.json",
}

var (
	schemaOnce sync.Once
	schemas    map[learning.StepType]*jsonschema.Schema
	schemaErr  error
)

func compileSchemas() (map[learning.StepType]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		compiled := map[string]*jsonschema.Schema{}
		out := map[learning.StepType]*jsonschema.Schema{}
		for typ, file := range schemaFileByType {
			if s, ok := compiled[file]; ok {
				out[typ] = s
				continue
			}
			raw, err := schemaFiles.ReadFile("schemas/" + file)
			if err != nil {
				schemaErr = err
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				schemaErr = fmt.Errorf("parse schema %s: %w", file, err)
				return
			}
			url := "schema://steps/" + file
			if err := c.AddResource(url, doc); err != nil {
				schemaErr = fmt.Errorf("add schema %s: %w", file, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				schemaErr = fmt.Errorf("compile schema %s: %w", file, err)
				return
			}
			compiled[file] = s
			out[typ] = s
		}
		schemas = out
	})
	return schemas, schemaErr
}

// ValidatePayload checks raw against the schema for typ. Types without a
// payload, and empty payloads, always pass.
func ValidatePayload(typ learning.StepType, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	all, err := compileSchemas()
	if err != nil {
		return err
	}
	s, ok := all[typ]
	if !ok {
		return nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
