package apihandlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sortd/internal/app"
	"sortd/internal/models"
	"sortd/internal/organize"
	"sortd/internal/plan"
)

// APIHandler holds dependencies for API handlers.
type APIHandler struct {
	App   *app.App
	plans *planRegistry
}

// NewAPIHandler creates a new APIHandler with the given application instance.
func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a, plans: newPlanRegistry()}
}

// planResponse is a stored plan together with its registry handle.
type planResponse struct {
	ID   string                   `json:"id"`
	Plan *models.OrganizationPlan `json:"plan"`
}

// CreatePlanRequest defines the expected JSON body for creating a plan.
type CreatePlanRequest struct {
	SourceRoot string `json:"source_root" binding:"required"`
}

// CreatePlanHandler scans a source tree and returns a classification plan.
// The plan is kept in the registry so it can be edited and committed later.
func (h *APIHandler) CreatePlanHandler(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.App.Preview(c.Request.Context(), req.SourceRoot)
	if err != nil {
		respondError(c, err)
		return
	}

	id := h.plans.Put(p)
	c.JSON(http.StatusCreated, gin.H{"data": planResponse{ID: id, Plan: p}})
}

// GetPlanHandler returns a stored plan by handle.
func (h *APIHandler) GetPlanHandler(c *gin.Context) {
	id := c.Param("id")
	p, ok := h.plans.Get(id)
	if !ok {
		NotFound(c, fmt.Sprintf("plan %s not found", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": planResponse{ID: id, Plan: p}})
}

// EditPlanEntryRequest defines the expected JSON body for reassigning one
// plan entry to a different category.
type EditPlanEntryRequest struct {
	SourcePath string `json:"source_path" binding:"required"`
	Category   string `json:"category" binding:"required"`
}

// EditPlanEntryHandler reassigns a single entry of a stored plan.
func (h *APIHandler) EditPlanEntryHandler(c *gin.Context) {
	id := c.Param("id")

	var req EditPlanEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.plans.Mutate(id, func(p *models.OrganizationPlan) error {
		return plan.Edit(p, req.SourcePath, req.Category)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": planResponse{ID: id, Plan: p}})
}

// CommitPlanRequest defines the optional JSON body for committing a plan.
type CommitPlanRequest struct {
	DryRun    bool `json:"dry_run"`
	AutoIndex bool `json:"auto_index"`
}

// CommitPlanHandler executes a stored plan. A dry run reports resolved
// targets without moving anything; otherwise the plan is consumed on success.
func (h *APIHandler) CommitPlanHandler(c *gin.Context) {
	id := c.Param("id")
	p, ok := h.plans.Get(id)
	if !ok {
		NotFound(c, fmt.Sprintf("plan %s not found", id))
		return
	}

	var req CommitPlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.App.Commit(c.Request.Context(), p, app.CommitOptions{
		DryRun:    req.DryRun,
		AutoIndex: req.AutoIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if !req.DryRun {
		h.plans.Delete(id)
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// UndoHandler reverses a committed plan. The path parameter is a commit id
// or "latest".
func (h *APIHandler) UndoHandler(c *gin.Context) {
	result, err := h.App.Undo(c.Request.Context(), c.Param("id"), organize.UndoOptions{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListLogsHandler returns the stored move logs, newest first.
func (h *APIHandler) ListLogsHandler(c *gin.Context) {
	logs, err := h.App.ListLogs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

// QueryHandler runs a natural-language query against the index.
func (h *APIHandler) QueryHandler(c *gin.Context) {
	limit, err := parseLimit(c, 50)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	results, err := h.App.Query(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(results) > limit {
		results = results[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

// SuggestHandler returns category completions for a partial path. An
// optional plan_id widens the vocabulary with that plan's categories.
func (h *APIHandler) SuggestHandler(c *gin.Context) {
	limit, err := parseLimit(c, 10)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	var p *models.OrganizationPlan
	if planID := c.Query("plan_id"); planID != "" {
		stored, ok := h.plans.Get(planID)
		if !ok {
			NotFound(c, fmt.Sprintf("plan %s not found", planID))
			return
		}
		p = stored
	}

	suggestions := h.App.Suggest(p, c.Query("partial"), limit)
	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}

// parseLimit reads the optional limit query parameter.
func parseLimit(c *gin.Context, def int) (int, error) {
	l := c.Query("limit")
	if l == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(l)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid limit: %s", l)
	}
	return parsed, nil
}
