package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type IncidentHandler struct {
	incidentService *incident.Service
	metrics         *metrics.HTTPMetrics
}

func NewIncidentHandler(incidentService *incident.Service, m *metrics.HTTPMetrics) *IncidentHandler {
	return &IncidentHandler{incidentService: incidentService, metrics: m}
}

func (h *IncidentHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	f, err := incident.ParseFilter(values)
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}

	resp, err := h.incidentService.List(c.Request.Context(), f, query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary ignores every query parameter.
func (h *IncidentHandler) Summary(c *gin.Context) {
	summary, err := h.incidentService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *IncidentHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req incident.CreateIncidentRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := h.incidentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusCreated, in)
}

func (h *IncidentHandler) Get(c *gin.Context) {
	in, err := h.incidentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *IncidentHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req incident.UpdateIncidentRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := h.incidentService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *IncidentHandler) Delete(c *gin.Context) {
	if err := h.incidentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.Status(http.StatusNoContent)
}
