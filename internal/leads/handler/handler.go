package handler

import (
	"time"

	"lead_analyzer_backend/internal/leads/service"
	"lead_analyzer_backend/internal/leads/transport"
	"lead_analyzer_backend/platform/apperr"
	"lead_analyzer_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidPayload = "Invalid JSON payload"
	statusOK          = "ok"
)

type Handler struct {
	svc *service.Service
	now func() time.Time
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// RegisterRoutes mounts the analysis endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-lead", h.AnalyzeLead)
}

// RegisterHealthRoutes mounts the health check.
func (h *Handler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/health-check", h.HealthCheck)
	rg.HEAD("/health-check", h.HealthCheck)
}

func (h *Handler) AnalyzeLead(c *gin.Context) {
	var req transport.AnalyzeLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidPayload))
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, analysis)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	now := h.now()
	httpkit.OK(c, transport.HealthResponse{
		Status:    statusOK,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
	})
}
