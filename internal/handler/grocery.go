package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/weeklyeats/internal/grocery"
	"github.com/dukerupert/weeklyeats/internal/model"
)

type GroceryHandler struct {
	svc    *grocery.Service
	logger *slog.Logger
	now    func() time.Time
}

func NewGroceryHandler(svc *grocery.Service, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{svc: svc, logger: logger, now: time.Now}
}

func (h *GroceryHandler) GetList(w http.ResponseWriter, r *http.Request) {
	week, err := resolveWeek(r.URL.Query().Get("week"), h.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.svc.ListForWeek(r.Context(), week)
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no grocery list for week "+week)
		return
	}
	if err != nil {
		h.logger.Error("failed to load grocery list", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load grocery list")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

type addItemsRequest struct {
	WeekOf string                 `json:"week_of"`
	Text   string                 `json:"text"`
	Items  []model.IngredientLine `json:"items"`
}

// AddItems accepts either free text ("2 lbs chicken breast") or structured
// lines. Items matching an existing row are merged into it.
func (h *GroceryHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req addItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	week, err := resolveWeek(req.WeekOf, h.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *grocery.AddResult
	switch {
	case strings.TrimSpace(req.Text) != "":
		result, err = h.svc.AddFreeText(r.Context(), week, req.Text)
	case len(req.Items) > 0:
		result, err = h.svc.AddItems(r.Context(), week, req.Items)
	default:
		writeError(w, http.StatusBadRequest, "text or items is required")
		return
	}
	if errors.Is(err, grocery.ErrEmptyItem) || errors.Is(err, grocery.ErrInvalidQuantity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to add grocery items", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add items")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *GroceryHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.svc.Toggle(r.Context(), id)
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to toggle grocery item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.svc.Remove(r.Context(), id)
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete grocery item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type clearRequest struct {
	WeekOf string `json:"week_of"`
}

func (h *GroceryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	week, err := resolveWeek(req.WeekOf, h.now)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.svc.Clear(r.Context(), week)
	if errors.Is(err, grocery.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no grocery list for week "+week)
		return
	}
	if err != nil {
		h.logger.Error("failed to clear grocery list", "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear list")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"cleared": count})
}
