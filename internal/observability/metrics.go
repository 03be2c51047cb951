package observability

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/yungbote/dsaquest-backend/internal/platform/envutil"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	contentRuns     *CounterVec
	contentDuration *HistogramVec
	contentIssues   *CounterVec

	lessonCompletions *CounterVec
	xpAwarded         *CounterVec
	achievements      *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process-wide metrics, or nil when metrics are disabled.
// Every method on a nil *Metrics is a no-op.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("dsaquest_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"dsaquest_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("dsaquest_api_inflight_requests", "In-flight API requests."),

		contentRuns: NewCounterVec("dsaquest_content_runs_total", "Content loads by action/outcome.", []string{"action", "outcome"}),
		contentDuration: NewHistogramVec(
			"dsaquest_content_run_duration_seconds",
			"Content load duration in seconds by action.",
			[]string{"action"},
			[]float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		),
		contentIssues: NewCounterVec("dsaquest_content_issues_total", "Content validation issues by severity.", []string{"severity"}),

		lessonCompletions: NewCounterVec("dsaquest_lesson_completions_total", "Lesson completion attempts by outcome.", []string{"outcome"}),
		xpAwarded:         NewCounterVec("dsaquest_xp_awarded_total", "Experience points awarded by kind.", []string{"kind"}),
		achievements:      NewCounterVec("dsaquest_achievements_unlocked_total", "Achievements unlocked by title.", []string{"title"}),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.contentRuns, m.contentDuration, m.contentIssues,
		m.lessonCompletions, m.xpAwarded, m.achievements,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveContentRun records one reload or validation pass.
func (m *Metrics) ObserveContentRun(action string, success bool, errors, warnings int, dur time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failed"
	}
	m.contentRuns.Inc(action, outcome)
	m.contentDuration.Observe(dur.Seconds(), action)
	if errors > 0 {
		m.contentIssues.Add(float64(errors), "error")
	}
	if warnings > 0 {
		m.contentIssues.Add(float64(warnings), "warning")
	}
}

func (m *Metrics) IncLessonCompletion(outcome string) {
	if m == nil {
		return
	}
	m.lessonCompletions.Inc(outcome)
}

func (m *Metrics) AddXP(kind string, xp int) {
	if m == nil || xp <= 0 {
		return
	}
	m.xpAwarded.Add(float64(xp), kind)
}

func (m *Metrics) IncAchievement(title string) {
	if m == nil {
		return
	}
	m.achievements.Inc(title)
}
