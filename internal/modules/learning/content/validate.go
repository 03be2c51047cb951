package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// validateRecord returns a readable description of every failed rule, or "".
func validateRecord(rec any) string {
	err := recordValidator.Struct(rec)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// prerequisiteCycle returns the modules left unresolved by a topological
// sort of the prerequisite graph, sorted. Unknown prerequisites are ignored.
func prerequisiteCycle(prereqs map[string][]string) []string {
	inDegree := make(map[string]int, len(prereqs))
	dependents := make(map[string][]string)
	for id, deps := range prereqs {
		if _, ok := inDegree[id]; !ok {
			inDegree[id] = 0
		}
		for _, dep := range deps {
			if _, known := prereqs[dep]; !known {
				continue
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var queue []string
	for id, n := range inDegree {
		if n == 0 {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range dependents[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	var stuck []string
	for id, n := range inDegree {
		if n > 0 {
			stuck = append(stuck, id)
		}
	}
	sort.Strings(stuck)
	return stuck
}
