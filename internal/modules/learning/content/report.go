package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", raw)
	}
	return nil
}

// Issue is one finding recorded during a load pass. Issues live only as long
// as the Report that holds them.
type Issue struct {
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Report accumulates issues in insertion order. No de-duplication is done.
type Report struct {
	mu     sync.Mutex
	issues []Issue
	now    func() time.Time
}

func NewReport() *Report {
	return &Report{now: func() time.Time { return time.Now().UTC() }}
}

func (r *Report) AddIssue(source, message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if r.now != nil {
		now = r.now()
	}
	r.issues = append(r.issues, Issue{
		Source:    source,
		Message:   message,
		Severity:  severity,
		Timestamp: now,
	})
}

// Warn records a Warning, the default severity for per-record problems.
func (r *Report) Warn(source, format string, args ...any) {
	r.AddIssue(source, fmt.Sprintf(format, args...), SeverityWarning)
}

func (r *Report) Errorf(source, format string, args ...any) {
	r.AddIssue(source, fmt.Sprintf(format, args...), SeverityError)
}

func (r *Report) Infof(source, format string, args ...any) {
	r.AddIssue(source, fmt.Sprintf(format, args...), SeverityInfo)
}

func (r *Report) Issues() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

func (r *Report) Count(severity Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, is := range r.issues {
		if is.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Summary is the shape returned to whoever triggered a reload.
type Summary struct {
	Success      bool    `json:"success"`
	IssueCount   int     `json:"issueCount"`
	ErrorCount   int     `json:"errorCount"`
	WarningCount int     `json:"warningCount"`
	Issues       []Issue `json:"issues"`
}

func (r *Report) Summary() Summary {
	issues := r.Issues()
	s := Summary{Issues: issues, IssueCount: len(issues)}
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			s.ErrorCount++
		case SeverityWarning:
			s.WarningCount++
		}
	}
	s.Success = s.ErrorCount == 0
	return s
}
