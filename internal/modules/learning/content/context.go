package content

import "github.com/yungbote/dsaquest-backend/internal/platform/logger"

// Context is shared by every source in one pipeline run.
type Context struct {
	Store  Store
	Report *Report
	// DryRun is set when Store is a disposable copy; sources behave the same.
	DryRun bool
	Log    *logger.Logger
}

func NewContext(store Store, log *logger.Logger) *Context {
	if log == nil {
		log = logger.Nop()
	}
	return &Context{Store: store, Report: NewReport(), Log: log}
}
