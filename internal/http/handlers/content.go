package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dsaquest-backend/internal/http/response"
	"github.com/yungbote/dsaquest-backend/internal/modules/learning/content"
	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
	"github.com/yungbote/dsaquest-backend/internal/services"
)

// ContentReloader runs a full content reload on behalf of actor.
type ContentReloader interface {
	Reload(ctx context.Context, actor string) (content.Summary, error)
}

type ContentHandler struct {
	content  services.ContentService
	reloader ContentReloader
}

// NewContentHandler reloads through reloader when one is given (for example a
// durable workflow dispatcher) and through the service otherwise.
func NewContentHandler(content services.ContentService, reloader ContentReloader) *ContentHandler {
	if reloader == nil {
		reloader = content
	}
	return &ContentHandler{content: content, reloader: reloader}
}

// POST /api/admin/content/reload
func (h *ContentHandler) Reload(c *gin.Context) {
	summary, err := h.reloader.Reload(c.Request.Context(), actorFrom(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/admin/content/validation-report
func (h *ContentHandler) ValidationReport(c *gin.Context) {
	summary, err := h.content.Validate(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, summary)
}

// GET /api/admin/content/stats
func (h *ContentHandler) Stats(c *gin.Context) {
	stats, err := h.content.Stats(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/admin/content/activity?limit=N
func (h *ContentHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.content.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity": rows})
}

func actorFrom(c *gin.Context) string {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID.String()
	}
	return "anonymous"
}
