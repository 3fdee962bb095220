package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/safespend/internal/export"
	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Granularity period.Granularity `json:"granularity" validate:"required,oneof=week month custom"`
	From        string             `json:"from,omitempty" validate:"required_if=Granularity custom"`
	To          string             `json:"to,omitempty" validate:"required_if=Granularity custom"`
}

func (req exportRequest) window(now time.Time) (period.Window, error) {
	var from, to time.Time

	if req.Granularity == period.GranularityCustom {
		var err error

		if from, err = time.ParseInLocation(time.DateOnly, req.From, now.Location()); err != nil {
			return period.Window{}, fmt.Errorf("parsing from: %w", err)
		}

		if to, err = time.ParseInLocation(time.DateOnly, req.To, now.Location()); err != nil {
			return period.Window{}, fmt.Errorf("parsing to: %w", err)
		}
	}

	return period.Range(req.Granularity, now, from, to)
}

type transactionResponse struct {
	ID       uuid.UUID   `json:"id"`
	Amount   int64       `json:"amount"`
	Type     ledger.Type `json:"type"`
	Category string      `json:"category"`
	Title    string      `json:"title"`
	Date     time.Time   `json:"date"`
	Virtual  bool        `json:"virtual"`
}

type exportMetadataResponse struct {
	Window       period.Window         `json:"window"`
	Transactions []transactionResponse `json:"transactions"`
	Summary      string                `json:"summary"`
}

func toTransactionResponse(item export.Item) transactionResponse {
	tx := item.Transaction

	return transactionResponse{
		ID:       tx.ID,
		Amount:   tx.Amount,
		Type:     tx.Type,
		Category: tx.Category,
		Title:    tx.Title,
		Date:     tx.Date,
		Virtual:  item.Virtual,
	}
}

func (h *Handler) decodeWindow(w http.ResponseWriter, r *http.Request) (period.Window, bool) {
	var req exportRequest
	if err := render.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return period.Window{}, false
	}

	window, err := req.window(h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return period.Window{}, false
	}

	return window, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	window, ok := h.decodeWindow(w, r)
	if !ok {
		return
	}

	items := h.svc.Items(window)

	txResponses := make([]transactionResponse, 0, len(items))
	for _, item := range items {
		txResponses = append(txResponses, toTransactionResponse(item))
	}

	render.JSON(w, http.StatusOK, exportMetadataResponse{
		Window:       window,
		Transactions: txResponses,
		Summary:      h.svc.Summary(items, window),
	})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	window, ok := h.decodeWindow(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "safespend-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	if _, err := h.svc.Export(window, tmpDir); err != nil {
		render.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", h.now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
