package savings

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/savings"
)

type Handler struct {
	store *ledger.Store
	svc   *savings.Service
}

func NewHandler(store *ledger.Store, svc *savings.Service) *Handler {
	return &Handler{store: store, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.status)
	r.Put("/pool", h.setPool)

	r.Get("/goals", h.listGoals)
	r.Post("/goals", h.createGoal)
	r.Patch("/goals/{id}", h.updateGoal)
	r.Delete("/goals/{id}", h.deleteGoal)
	r.Post("/goals/{id}/allocate", h.allocate)
	r.Post("/goals/{id}/withdraw", h.withdraw)

	r.Get("/history", h.history)
	r.Delete("/history/{id}", h.deleteHistory)
}

type goalResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Progress      float64    `json:"progress"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
}

func toGoalResponse(g ledger.SavingsGoal) goalResponse {
	return goalResponse{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress(),
		Deadline:      g.Deadline,
		Color:         g.Color,
		Icon:          g.Icon,
	}
}

type movementResponse struct {
	ID           uuid.UUID   `json:"id"`
	Amount       int64       `json:"amount"`
	Type         ledger.Type `json:"type"`
	Title        string      `json:"title"`
	Date         time.Time   `json:"date"`
	LinkedGoalID *uuid.UUID  `json:"linked_goal_id,omitempty"`
}

func toMovementResponse(tx ledger.Transaction) movementResponse {
	return movementResponse{
		ID:           tx.ID,
		Amount:       tx.Amount,
		Type:         tx.Type,
		Title:        tx.Title,
		Date:         tx.Date,
		LinkedGoalID: tx.LinkedGoalID,
	}
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, h.svc.Status())
}

type poolRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

func (h *Handler) setPool(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SetManualSavingsPool(req.Amount); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, h.svc.Status())
}

func (h *Handler) listGoals(w http.ResponseWriter, _ *http.Request) {
	goals := h.store.SavingsGoals()

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toGoalResponse(g)
	}

	render.JSON(w, http.StatusOK, resp)
}

type createGoalRequest struct {
	Name         string     `json:"name" validate:"required,notblank"`
	TargetAmount int64      `json:"target_amount" validate:"gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Color        string     `json:"color"`
	Icon         string     `json:"icon"`
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.store.AddSavingsGoal(ledger.SavingsGoalParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Color:        req.Color,
		Icon:         req.Icon,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toGoalResponse(g))
}

type updateGoalRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitnil,notblank"`
	TargetAmount *int64     `json:"target_amount,omitempty" validate:"omitnil,gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Color        *string    `json:"color,omitempty"`
	Icon         *string    `json:"icon,omitempty"`
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateGoalRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.store.UpdateSavingsGoal(id, ledger.SavingsGoalPatch{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Color:        req.Color,
		Icon:         req.Icon,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toGoalResponse(g))
}

func (h *Handler) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteSavingsGoal(id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type movementRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

func (h *Handler) allocate(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Allocate)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Withdraw)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, fn func(uuid.UUID, int64) (ledger.Transaction, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req movementRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := fn(id, req.Amount)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toMovementResponse(tx))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	var goalID *uuid.UUID

	if s := r.URL.Query().Get("goal_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid goal_id", http.StatusBadRequest)
			return
		}

		goalID = &id
	}

	resp := []movementResponse{}

	for _, tx := range h.store.SavingsTransactions() {
		if goalID != nil && (tx.LinkedGoalID == nil || *tx.LinkedGoalID != *goalID) {
			continue
		}

		resp = append(resp, toMovementResponse(tx))
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteSavingsTransaction(id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
