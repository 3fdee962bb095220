package analytics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/safespend/internal/analytics"
	"github.com/MrJamesThe3rd/safespend/internal/http/render"
	"github.com/MrJamesThe3rd/safespend/internal/ledger"
	"github.com/MrJamesThe3rd/safespend/internal/month"
	"github.com/MrJamesThe3rd/safespend/internal/period"
)

type Handler struct {
	store *ledger.Store
	now   func() time.Time
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/report", h.report)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	m, err := render.Month(r, "month", month.Of(h.now()))
	if err != nil {
		http.Error(w, "month must be in YYYY-MM format", http.StatusBadRequest)
		return
	}

	render.JSON(w, http.StatusOK, analytics.Summarize(h.store.Snapshot(), m))
}

// report takes granularity=week|month|custom; custom also needs from and to as
// YYYY-MM-DD.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	g := period.GranularityMonth
	if s := q.Get("granularity"); s != "" {
		var err error
		if g, err = period.ParseGranularity(s); err != nil {
			render.Error(w, err)
			return
		}
	}

	var from, to time.Time

	if g == period.GranularityCustom {
		var err error

		if from, err = time.ParseInLocation(time.DateOnly, q.Get("from"), time.Local); err != nil {
			http.Error(w, "from must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}

		if to, err = time.ParseInLocation(time.DateOnly, q.Get("to"), time.Local); err != nil {
			http.Error(w, "to must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
	}

	window, err := period.Range(g, h.now(), from, to)
	if err != nil {
		render.Error(w, err)
		return
	}

	doc := h.store.Snapshot()

	render.JSON(w, http.StatusOK, analytics.PeriodReport(doc, window, period.NewLabeler(doc.Settings.Language)))
}
