package handlers

import (
	"log"
	"net/http"
	"time"

	"billingpanel/internal/caching"
	"billingpanel/internal/common"
	"billingpanel/internal/repositories"

	"github.com/labstack/echo/v4"
)

const planCacheTTL = 30 * time.Minute

// PlanHandlers serves the read-only plan catalog.
type PlanHandlers struct {
	planRepo repositories.PlanRepository
	cacheSvc caching.CacheService
}

func NewPlanHandlers(planRepo repositories.PlanRepository, cacheSvc caching.CacheService) *PlanHandlers {
	return &PlanHandlers{planRepo: planRepo, cacheSvc: cacheSvc}
}

// ListPlans handles GET /plans
func (h *PlanHandlers) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	if h.cacheSvc != nil {
		if cached, err := h.cacheSvc.GetPlans(ctx); err == nil && cached != nil {
			return c.JSON(http.StatusOK, map[string]interface{}{"plans": cached})
		}
	}

	plans, err := h.planRepo.List(ctx)
	if err != nil {
		return serviceError(c, err, "plans")
	}

	if h.cacheSvc != nil {
		if err := h.cacheSvc.SetPlans(ctx, plans, planCacheTTL); err != nil {
			log.Printf("WARN: failed to cache plan catalog: %v", err)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": plans})
}

// GetPlan handles GET /plans/:id
func (h *PlanHandlers) GetPlan(c echo.Context) error {
	planID, err := common.ValidateUUID(c.Param("id"), "plan id")
	if err != nil {
		return serviceError(c, err, "plan")
	}

	plan, err := h.planRepo.GetByID(c.Request().Context(), planID)
	if err != nil {
		return serviceError(c, err, "plan")
	}
	return c.JSON(http.StatusOK, plan)
}
