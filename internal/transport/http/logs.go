package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eyewear-tracker-go/internal/domain/wearlog"
	"eyewear-tracker-go/internal/platform/errors"
	"eyewear-tracker-go/internal/platform/logging"
)

// LogsHandler exposes the usage log store over HTTP.
type LogsHandler struct {
	svc    *wearlog.Service
	logger *logging.Logger
}

func NewLogsHandler(svc *wearlog.Service, logger *logging.Logger) *LogsHandler {
	return &LogsHandler{svc: svc, logger: logger}
}

// RegisterRoutes wires the log endpoints onto the API group.
func (h *LogsHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/logs", h.SaveLog)
	api.GET("/logs/:token", h.ListLogs)
	api.GET("/logs/:token/latest", h.LatestLog)
	api.GET("/logs/:token/monthly/:year/:month", h.MonthlyLogs)
	api.GET("/logs/:token/summary", h.Summary)
	api.DELETE("/logs/:token/:date", h.DeleteLog)
	api.DELETE("/logs", h.ClearLogs)
}

func (h *LogsHandler) SaveLog(c *gin.Context) {
	var input wearlog.UpsertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest,
			"Missing required fields: token, date, and wearType are required")
		return
	}

	entry, err := h.svc.Upsert(c.Request.Context(), input)
	if err != nil {
		h.respondServiceError(c, err, "Failed to save log")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *LogsHandler) ListLogs(c *gin.Context) {
	logs, err := h.svc.ListAll(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to fetch logs")
		return
	}
	if logs == nil {
		logs = []wearlog.Entry{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *LogsHandler) LatestLog(c *gin.Context) {
	latest, err := h.svc.Latest(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to fetch latest log")
		return
	}
	// No history serializes as a JSON null body.
	c.JSON(http.StatusOK, latest)
}

func (h *LogsHandler) MonthlyLogs(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Param("year"))
	month, errMonth := strconv.Atoi(c.Param("month"))
	if errYear != nil || errMonth != nil {
		RespondError(c, http.StatusBadRequest, "year and month must be numeric")
		return
	}

	logs, err := h.svc.ListMonth(c.Request.Context(), c.Param("token"), year, month)
	if err != nil {
		h.respondServiceError(c, err, "Failed to fetch monthly logs")
		return
	}
	if logs == nil {
		logs = []wearlog.Entry{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *LogsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to fetch summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *LogsHandler) DeleteLog(c *gin.Context) {
	_, latest, err := h.svc.Delete(c.Request.Context(), c.Param("token"), c.Param("date"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to delete log")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Log deleted successfully",
		"latestLog": latest,
	})
}

func (h *LogsHandler) ClearLogs(c *gin.Context) {
	count, err := h.svc.ClearAll(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err, "Failed to clear logs")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "All logs cleared successfully",
		"count":   count,
	})
}

// respondServiceError maps the error kind to a status. Validation and
// not-found errors carry their own message; everything else is masked
// behind the operation's generic message and logged in full.
func (h *LogsHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.IsKind(err, errors.KindValidation):
		RespondError(c, http.StatusBadRequest, errors.MessageOf(err))
	case errors.IsKind(err, errors.KindNotFound):
		RespondError(c, http.StatusNotFound, errors.MessageOf(err))
	default:
		h.logger.ErrorTag("http", "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		RespondError(c, http.StatusInternalServerError, fallback)
	}
}
