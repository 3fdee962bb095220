package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/money"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

type settingsResponse struct {
	Currency       string          `json:"currency"`
	CurrencySymbol string          `json:"currency_symbol"`
	Language       ledger.Language `json:"language"`
	UserName       string          `json:"user_name"`
	Theme          ledger.Theme    `json:"theme"`
}

func toResponse(s ledger.Settings) settingsResponse {
	return settingsResponse{
		Currency:       s.Currency,
		CurrencySymbol: money.New(s).Symbol(),
		Language:       s.Language,
		UserName:       s.UserName,
		Theme:          s.Theme,
	}
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	render.JSON(w, http.StatusOK, toResponse(h.store.Settings()))
}

type updateRequest struct {
	Currency *string          `json:"currency,omitempty" validate:"omitnil,len=3"`
	Language *ledger.Language `json:"language,omitempty" validate:"omitnil,oneof=es en"`
	UserName *string          `json:"user_name,omitempty" validate:"omitnil,notblank"`
	Theme    *ledger.Theme    `json:"theme,omitempty" validate:"omitnil,oneof=light dark system"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := h.store.UpdateSettings(ledger.SettingsPatch{
		Currency: req.Currency,
		Language: req.Language,
		UserName: req.UserName,
		Theme:    req.Theme,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(s))
}
