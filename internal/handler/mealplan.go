package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dukerupert/weeklyeats/internal/grocery"
	"github.com/dukerupert/weeklyeats/internal/model"
)

type MealPlanHandler struct {
	svc    *grocery.Service
	logger *slog.Logger
	now    func() time.Time

	// regen collapses concurrent regenerations of one plan into a single run.
	regen singleflight.Group
}

func NewMealPlanHandler(svc *grocery.Service, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{svc: svc, logger: logger, now: time.Now}
}

type createMealPlanRequest struct {
	WeekOf      string         `json:"week_of"`
	GeneratedBy string         `json:"generated_by"`
	Recipes     []model.Recipe `json:"recipes"`
}

type createMealPlanResponse struct {
	MealPlan    *model.MealPlanWithRecipes  `json:"meal_plan"`
	GroceryList *model.GroceryListWithItems `json:"grocery_list"`
}

func (h *MealPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	week, err := resolveWeek(req.WeekOf, h.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i, rec := range req.Recipes {
		if rec.Name == "" {
			writeError(w, http.StatusBadRequest, "recipe "+strconv.Itoa(i)+": name is required")
			return
		}
		if rec.DayOfWeek != nil && (*rec.DayOfWeek < 0 || *rec.DayOfWeek > 6) {
			writeError(w, http.StatusBadRequest, "recipe "+strconv.Itoa(i)+": day_of_week must be 0-6")
			return
		}
	}

	plan, list, err := h.svc.CreatePlan(r.Context(), week, req.GeneratedBy, req.Recipes)
	if errors.Is(err, grocery.ErrPlanExists) {
		writeError(w, http.StatusConflict, err.Error()+" "+week)
		return
	}
	if errors.Is(err, grocery.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to create meal plan", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal plan")
		return
	}

	writeJSON(w, http.StatusCreated, createMealPlanResponse{MealPlan: plan, GroceryList: list})
}

func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	week, err := resolveWeek(r.PathValue("week"), h.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.svc.PlanForWeek(r.Context(), week)
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no meal plan for week "+week)
		return
	}
	if err != nil {
		h.logger.Error("failed to load meal plan", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meal plan")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// RegenerateList rebuilds a plan's grocery list. Without ?force=true an
// unchanged recipe set keeps the current list and its checked state.
func (h *MealPlanHandler) RegenerateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	// The run is shared by every caller joined on this plan, so it must not
	// end when one of them disconnects.
	ctx := context.WithoutCancel(r.Context())
	v, err, shared := h.regen.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return h.svc.Regenerate(ctx, id, force)
	})
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to regenerate grocery list", "meal_plan_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to regenerate grocery list")
		return
	}
	if shared {
		h.logger.Debug("joined in-flight regeneration", "meal_plan_id", id)
	}

	writeJSON(w, http.StatusOK, v.(*model.GroceryListWithItems))
}
