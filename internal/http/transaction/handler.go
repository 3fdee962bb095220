package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Amount   int64       `json:"amount" validate:"gt=0"`
	Type     ledger.Type `json:"type" validate:"required,oneof=income expense"`
	Category string      `json:"category" validate:"required,notblank"`
	Title    string      `json:"title" validate:"required,notblank"`
	Date     time.Time   `json:"date" validate:"required"`
	Note     string      `json:"note"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.store.AddTransaction(ledger.TransactionParams{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
		Date:     req.Date,
		Note:     req.Note,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

// list supports month=YYYY-MM, or start_date and end_date as YYYY-MM-DD, plus
// type and category filters.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var window *period.Window

	if s := q.Get("month"); s != "" {
		m, err := month.Parse(s)
		if err != nil {
			http.Error(w, "month must be in YYYY-MM format", http.StatusBadRequest)
			return
		}

		window = &period.Window{Start: m.Start(time.UTC), End: m.End(time.UTC)}
	}

	start, end := time.Time{}, time.Time{}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "start_date must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}

		start = period.StartOfDay(t)
	}

	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "end_date must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}

		end = period.EndOfDay(t)
	}

	typ := ledger.Type(q.Get("type"))
	category := q.Get("category")

	out := []ledger.Transaction{}

	for _, tx := range h.store.Transactions() {
		if window != nil && !window.Contains(tx.Date) {
			continue
		}

		if !start.IsZero() && tx.Date.Before(start) {
			continue
		}

		if !end.IsZero() && tx.Date.After(end) {
			continue
		}

		if typ != "" && tx.Type != typ {
			continue
		}

		if category != "" && tx.Category != category {
			continue
		}

		out = append(out, tx)
	}

	render.JSON(w, http.StatusOK, toResponseList(out))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.store.Transaction(id)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTransaction(id); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Amount   *int64       `json:"amount,omitempty" validate:"omitnil,gt=0"`
	Type     *ledger.Type `json:"type,omitempty" validate:"omitnil,oneof=income expense"`
	Category *string      `json:"category,omitempty" validate:"omitnil,notblank"`
	Title    *string      `json:"title,omitempty" validate:"omitnil,notblank"`
	Date     *time.Time   `json:"date,omitempty"`
	Note     *string      `json:"note,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.store.UpdateTransaction(id, ledger.TransactionPatch{
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Title:    req.Title,
		Date:     req.Date,
		Note:     req.Note,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}
