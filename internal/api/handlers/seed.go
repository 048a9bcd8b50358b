package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/core/seed"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type SeedHandler struct {
	seedService *seed.Service
	metrics     *metrics.HTTPMetrics
}

func NewSeedHandler(seedService *seed.Service, m *metrics.HTTPMetrics) *SeedHandler {
	return &SeedHandler{seedService: seedService, metrics: m}
}

func (h *SeedHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	resp, err := h.seedService.List(c.Request.Context(), seed.ParseFilter(values), query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SeedHandler) Search(c *gin.Context) {
	values := c.Request.URL.Query()
	term, err := query.SearchTerm(values)
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}

	resp, err := h.seedService.Search(c.Request.Context(), term, seed.ParseFilter(values), query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SeedHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req seed.CreateSeedRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.seedService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SeedHandler) Get(c *gin.Context) {
	s, err := h.seedService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SeedHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req seed.UpdateSeedRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.seedService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SeedHandler) Delete(c *gin.Context) {
	if err := h.seedService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SeedHandler) Trials(c *gin.Context) {
	trials, err := h.seedService.Trials(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, trials)
}

func (h *SeedHandler) Performance(c *gin.Context) {
	perf, err := h.seedService.Performance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "seed", err)
		return
	}
	c.JSON(http.StatusOK, perf)
}
