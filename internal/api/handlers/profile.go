package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/core/profile"
	"github.com/seedtrial/seedtrial/internal/core/query"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type ProfileHandler struct {
	profileService *profile.Service
	metrics        *metrics.HTTPMetrics
}

func NewProfileHandler(profileService *profile.Service, m *metrics.HTTPMetrics) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, metrics: m}
}

func (h *ProfileHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	resp, err := h.profileService.List(c.Request.Context(), profile.ParseFilter(values), query.ParsePage(values))
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create makes the caller's own profile.
func (h *ProfileHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req profile.CreateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req profile.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.profileService.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) Trials(c *gin.Context) {
	trials, err := h.profileService.Trials(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusOK, trials)
}

func (h *ProfileHandler) Incidents(c *gin.Context) {
	incidents, err := h.profileService.Incidents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.metrics, "profile", err)
		return
	}
	c.JSON(http.StatusOK, incidents)
}
