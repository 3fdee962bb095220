package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Icon  string      `json:"icon"`
	Color string      `json:"color"`
	Type  ledger.Type `json:"type"`
}

func toResponse(c ledger.Category) categoryResponse {
	return categoryResponse(c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	typ := ledger.Type(r.URL.Query().Get("type"))

	resp := []categoryResponse{}

	for _, c := range h.store.Categories() {
		if typ != "" && c.Type != typ {
			continue
		}

		resp = append(resp, toResponse(c))
	}

	render.JSON(w, http.StatusOK, resp)
}

type createRequest struct {
	ID    string      `json:"id"`
	Name  string      `json:"name" validate:"required,notblank"`
	Icon  string      `json:"icon"`
	Color string      `json:"color"`
	Type  ledger.Type `json:"type" validate:"required,oneof=income expense"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.store.AddCategory(ledger.Category{
		ID:    req.ID,
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
		Type:  req.Type,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		render.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
