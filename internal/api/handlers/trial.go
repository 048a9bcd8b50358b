package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/trial"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type TrialHandler struct {
	trialService *trial.Service
	metrics      *metrics.HTTPMetrics
}

func NewTrialHandler(trialService *trial.Service, m *metrics.HTTPMetrics) *TrialHandler {
	return &TrialHandler{trialService: trialService, metrics: m}
}

func (h *TrialHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	f, err := trial.ParseFilter(values)
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}

	resp, err := h.trialService.List(c.Request.Context(), f, query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrialHandler) Search(c *gin.Context) {
	values := c.Request.URL.Query()
	f, err := trial.ParseFilter(values)
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}

	resp, err := h.trialService.Search(c.Request.Context(), f, query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TrialHandler) Summary(c *gin.Context) {
	f, err := trial.ParseFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}

	summary, err := h.trialService.Summary(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *TrialHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req trial.CreateTrialRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.trialService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TrialHandler) Get(c *gin.Context) {
	t, err := h.trialService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TrialHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req trial.UpdateTrialRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.trialService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TrialHandler) Delete(c *gin.Context) {
	if err := h.trialService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TrialHandler) Incidents(c *gin.Context) {
	incidents, err := h.trialService.Incidents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "trial", err)
		return
	}
	c.JSON(http.StatusOK, incidents)
}

func (h *TrialHandler) AddIncident(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req incident.CreateIncidentRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := h.trialService.AddIncident(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "incident", err)
		return
	}
	c.JSON(http.StatusCreated, in)
}
