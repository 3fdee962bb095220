package fixedexpense

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
)

type Handler struct {
	store *ledger.Store
	now   func() time.Time
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/planner", h.planner)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/paid/{month}", h.markPaid)
	r.Delete("/{id}/paid/{month}", h.markUnpaid)
}

type fixedExpenseResponse struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Amount    int64                    `json:"amount"`
	Day       int                      `json:"day"`
	History   month.Map[ledger.Status] `json:"history"`
	PaidDates month.Map[time.Time]     `json:"paid_dates"`
}

func toResponse(e ledger.FixedExpense) fixedExpenseResponse {
	return fixedExpenseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Amount:    e.Amount,
		Day:       e.Day,
		History:   e.History,
		PaidDates: e.PaidDates,
	}
}

type createRequest struct {
	Name   string `json:"name" validate:"required,notblank"`
	Amount int64  `json:"amount" validate:"gt=0"`
	Day    int    `json:"day" validate:"min=1,max=31"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.store.AddFixedExpense(ledger.FixedExpenseParams{
		Name:   req.Name,
		Amount: req.Amount,
		Day:    req.Day,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	expenses := h.store.FixedExpenses()

	resp := make([]fixedExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toResponse(e)
	}

	render.JSON(w, http.StatusOK, resp)
}

// planner returns the month view with derived late and due-soon flags.
func (h *Handler) planner(w http.ResponseWriter, r *http.Request) {
	today := h.now()

	m, err := render.Month(r, "month", month.Of(today))
	if err != nil {
		http.Error(w, "month must be in YYYY-MM format", http.StatusBadRequest)
		return
	}

	render.JSON(w, http.StatusOK, analytics.Planner(h.store.FixedExpenses(), m, today))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.store.FixedExpense(id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

type updateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitnil,notblank"`
	Amount *int64  `json:"amount,omitempty" validate:"omitnil,gt=0"`
	Day    *int    `json:"day,omitempty" validate:"omitnil,min=1,max=31"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.store.UpdateFixedExpense(id, ledger.FixedExpensePatch{
		Name:   req.Name,
		Amount: req.Amount,
		Day:    req.Day,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteFixedExpense(id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, m, ok := parseTarget(w, r)
	if !ok {
		return
	}

	e, err := h.store.MarkFixedExpensePaid(id, m, h.now())
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) markUnpaid(w http.ResponseWriter, r *http.Request) {
	id, m, ok := parseTarget(w, r)
	if !ok {
		return
	}

	e, err := h.store.MarkFixedExpenseUnpaid(id, m)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(e))
}

func parseTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, month.Key, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, month.Key{}, false
	}

	m, err := month.Parse(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be in YYYY-MM format", http.StatusBadRequest)
		return uuid.Nil, month.Key{}, false
	}

	return id, m, true
}
