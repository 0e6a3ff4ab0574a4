package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/recouvro/recouvro/pkg/httputil"
	"github.com/recouvro/recouvro/pkg/ledger"
)

// RecoveryHandlers handles the ledger CRUD and query endpoints.
type RecoveryHandlers struct {
	store *ledger.Store
}

// NewRecoveryHandlers creates the recovery handlers.
func NewRecoveryHandlers(store *ledger.Store) *RecoveryHandlers {
	return &RecoveryHandlers{store: store}
}

// recoveryPayload is a Recovery plus its derived balance. The balance is
// recomputed on every read and labeled: positive is outstanding, zero or
// negative is settled/overpaid.
type recoveryPayload struct {
	*ledger.Recovery
	Balance       float64 `json:"balance"`
	BalanceStatus string  `json:"balanceStatus"`
}

func payload(rec *ledger.Recovery) recoveryPayload {
	return recoveryPayload{
		Recovery:      rec,
		Balance:       ledger.Balance(rec),
		BalanceStatus: ledger.BalanceStatus(rec),
	}
}

func payloads(records []*ledger.Recovery) []recoveryPayload {
	out := make([]recoveryPayload, 0, len(records))
	for _, rec := range records {
		out = append(out, payload(rec))
	}
	return out
}

// create handles POST /api/recoveries. Creation is deliberately open to
// anonymous callers; only update and delete are admin-gated.
func (h *RecoveryHandlers) create(w http.ResponseWriter, r *http.Request) {
	var params ledger.CreateParams
	if !httputil.ParseJSONOrError(w, r, &params) {
		return
	}

	rec, err := h.store.Create(r.Context(), &params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, payload(rec))
}

// list handles GET /api/recoveries?kompassId=&editionYear=
func (h *RecoveryHandlers) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.Filter{
		KompassID:   httputil.ParseQueryString(r, "kompassId", ""),
		EditionYear: httputil.ParseQueryString(r, "editionYear", ""),
	}

	records, err := h.store.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, payloads(records))
}

// getByID handles GET /api/recoveries/{id}
func (h *RecoveryHandlers) getByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, payload(rec))
}

// update handles PUT /api/recoveries/{id} (admin only). Fields absent from
// the body keep their previous value; provided fields replace it, including
// explicit zeros such as amountPaid = 0.
func (h *RecoveryHandlers) update(w http.ResponseWriter, r *http.Request) {
	var params ledger.UpdateParams
	if !httputil.ParseJSONOrError(w, r, &params) {
		return
	}

	rec, err := h.store.Update(r.Context(), mux.Vars(r)["id"], &params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, payload(rec))
}

// delete handles DELETE /api/recoveries/{id} (admin only)
func (h *RecoveryHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteMessage(w, "recovery payment deleted")
}

// editionYears handles GET /api/recoveries/editions?kompassId=. It drives
// the company dashboard, which defaults to the most recent edition.
func (h *RecoveryHandlers) editionYears(w http.ResponseWriter, r *http.Request) {
	kompassID := httputil.ParseQueryString(r, "kompassId", "")

	years, err := h.store.EditionYears(r.Context(), kompassID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, years)
}

// summary handles GET /api/recoveries/summary?kompassId=&editionYear=,
// returning aggregate totals across the filtered set. An empty set yields
// zero totals.
func (h *RecoveryHandlers) summary(w http.ResponseWriter, r *http.Request) {
	filter := ledger.Filter{
		KompassID:   httputil.ParseQueryString(r, "kompassId", ""),
		EditionYear: httputil.ParseQueryString(r, "editionYear", ""),
	}

	records, err := h.store.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, ledger.Aggregate(records))
}
