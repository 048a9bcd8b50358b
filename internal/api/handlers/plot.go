package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/core/plot"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type PlotHandler struct {
	plotService *plot.Service
	metrics     *metrics.HTTPMetrics
}

func NewPlotHandler(plotService *plot.Service, m *metrics.HTTPMetrics) *PlotHandler {
	return &PlotHandler{plotService: plotService, metrics: m}
}

func (h *PlotHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	resp, err := h.plotService.List(c.Request.Context(), plot.ParseFilter(values), query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlotHandler) Search(c *gin.Context) {
	values := c.Request.URL.Query()
	term, err := query.SearchTerm(values)
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}

	resp, err := h.plotService.Search(c.Request.Context(), term, plot.ParseFilter(values), query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PlotHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req plot.CreatePlotRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.plotService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PlotHandler) Get(c *gin.Context) {
	p, err := h.plotService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlotHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req plot.UpdatePlotRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.plotService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PlotHandler) Delete(c *gin.Context) {
	if err := h.plotService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlotHandler) ActiveTrials(c *gin.Context) {
	trials, err := h.plotService.ActiveTrials(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, trials)
}

func (h *PlotHandler) Incidents(c *gin.Context) {
	incidents, err := h.plotService.Incidents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "plot", err)
		return
	}
	c.JSON(http.StatusOK, incidents)
}
