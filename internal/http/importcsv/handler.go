package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/importer"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.preview)
	r.Post("/confirm", h.confirm)
}

type draftDTO struct {
	Date           time.Time   `json:"date" validate:"required"`
	Amount         int64       `json:"amount" validate:"gt=0"`
	Type           ledger.Type `json:"type" validate:"required,oneof=income expense"`
	Title          string      `json:"title"`
	RawDescription string      `json:"raw_description"`
	Category       string      `json:"category"`
}

func toDraftDTO(d importer.Draft) draftDTO {
	return draftDTO{
		Date:           d.Date,
		Amount:         d.Amount,
		Type:           d.Type,
		Title:          d.Title,
		RawDescription: d.RawDescription,
		Category:       d.Category,
	}
}

type previewResponse struct {
	Drafts []draftDTO `json:"drafts"`
}

type transactionResponse struct {
	ID       uuid.UUID   `json:"id"`
	Amount   int64       `json:"amount"`
	Type     ledger.Type `json:"type"`
	Category string      `json:"category"`
	Title    string      `json:"title"`
	Date     time.Time   `json:"date"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Duplicates   int                   `json:"duplicates"`
	Transactions []transactionResponse `json:"transactions"`
}

type confirmRequest struct {
	Drafts []draftDTO `json:"drafts" validate:"required,min=1,dive"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	drafts, err := h.importSvc.Preview(r.Context(), bank, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := previewResponse{Drafts: make([]draftDTO, 0, len(drafts))}
	for _, d := range drafts {
		resp.Drafts = append(resp.Drafts, toDraftDTO(d))
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drafts := make([]importer.Draft, 0, len(req.Drafts))
	for _, d := range req.Drafts {
		drafts = append(drafts, importer.Draft{
			Date:           d.Date,
			Amount:         d.Amount,
			Type:           d.Type,
			Title:          d.Title,
			RawDescription: d.RawDescription,
			Category:       d.Category,
		})
	}

	result, err := h.importSvc.Commit(r.Context(), drafts)
	if err != nil {
		render.Error(w, err)
		return
	}

	resp := importSuccessResponse{
		Imported:     len(result.Imported),
		Duplicates:   result.Duplicates,
		Transactions: make([]transactionResponse, 0, len(result.Imported)),
	}

	for _, tx := range result.Imported {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			ID:       tx.ID,
			Amount:   tx.Amount,
			Type:     tx.Type,
			Category: tx.Category,
			Title:    tx.Title,
			Date:     tx.Date,
		})
	}

	render.JSON(w, http.StatusCreated, resp)
}
