package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/ledger"
	"github.com/recouvro/recouvro/pkg/observability"
)

// testSecret signs tokens in handler tests.
const testSecret = "test-secret"

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, *auth.JWTIssuer) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	issuer := auth.NewJWTIssuer([]byte(testSecret), time.Hour)
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	server := NewServer(Options{
		Users:  auth.NewStore(db, auth.NewBcryptHasher(4), time.Second),
		Issuer: issuer,
		Ledger: ledger.NewStore(db, nil, nil, time.Second),
		Logger: logger,
	})

	return server, mock, issuer
}

func doJSON(t *testing.T, server *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func recoveryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "kompass_id", "client_name", "payment_method", "bank_name", "edition_year",
		"invoice_date", "is_full_payment", "amount_due", "amount_paid", "payment_total_amount",
		"agent_name", "payment_date", "created_at", "updated_at",
	})
}

func addRecoveryRow(rows *sqlmock.Rows, id, kompassID, year string, due, paid float64) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, kompassID, "Acme SARL", "Cash", "BNC", year,
		nil, false, due, paid, nil, "J. Kouassi", now, now, now)
}

func validRecoveryBody() map[string]interface{} {
	return map[string]interface{}{
		"kompassId":     "K1",
		"clientName":    "Acme SARL",
		"paymentMethod": "Cash",
		"bankName":      "BNC",
		"editionYear":   "2024",
		"isFullPayment": false,
		"amountDue":     1000,
		"amountPaid":    400,
		"agentName":     "J. Kouassi",
	}
}
