package contentreload

const (
	WorkflowName   = "content_reload"
	ActivityReload = "content_reload_run"

	// WorkflowID is fixed so at most one reload runs per namespace.
	WorkflowID = "content-reload"
)

type Input struct {
	Actor string `json:"actor"`
}
