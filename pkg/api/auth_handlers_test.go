package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recouvro/recouvro/pkg/auth"
	"github.com/recouvro/recouvro/pkg/httputil"
)

func TestRegister(t *testing.T) {
	server, mock, issuer := newTestServer(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "Alice", "password": "s3cret"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "alice", resp.Username, "usernames are case-normalized")
	assert.Equal(t, auth.RolePublic, resp.Role)
	assert.NotEmpty(t, resp.Token)

	// The returned token is immediately usable.
	identity, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, identity.UserID)
	assert.Equal(t, auth.RolePublic, identity.Role)
}

func TestRegister_AdminRole(t *testing.T) {
	server, mock, issuer := newTestServer(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "boss", "password": "s3cret", "role": "admin"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	decodeBody(t, rec, &resp)
	identity, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, identity.Role)
}

func TestRegister_MissingFields(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"no username", map[string]string{"password": "s3cret"}},
		{"no password", map[string]string{"username": "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	server, mock, _ := newTestServer(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	rec := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "alice", "password": "s3cret"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicates surface as 400 on this endpoint")

	var resp httputil.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Message, "alice")
}

func userRow(t *testing.T, id, username, password, role string) *sqlmock.Rows {
	t.Helper()
	hash, err := auth.NewBcryptHasher(4).Hash(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(id, username, hash, role, time.Now())
}

func TestLogin(t *testing.T) {
	server, mock, issuer := newTestServer(t)
	id := uuid.NewString()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(userRow(t, id, "alice", "s3cret", "admin"))

	rec := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "Alice", "password": "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, auth.RoleAdmin, resp.Role)

	identity, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, identity.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	server, mock, _ := newTestServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(userRow(t, uuid.NewString(), "alice", "s3cret", "public"))

	rec := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp httputil.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "invalid username or password", resp.Message)
}

func TestLogin_UnknownUser(t *testing.T) {
	server, mock, _ := newTestServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "ghost", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Same message as a wrong password: the caller cannot probe for usernames.
	var resp httputil.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "invalid username or password", resp.Message)
}

func TestLogin_MalformedBody(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
