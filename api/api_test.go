package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/huzzdev/sincrolab-backend/account"
	"github.com/huzzdev/sincrolab-backend/account/accounttest"
	"github.com/huzzdev/sincrolab-backend/api"
	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/auth/jwt"
	"github.com/huzzdev/sincrolab-backend/auth/password"
	"github.com/huzzdev/sincrolab-backend/auth/revocation"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/logger"
	"github.com/huzzdev/sincrolab-backend/server"
	"github.com/huzzdev/sincrolab-backend/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t       *testing.T
	handler http.Handler
	svc     *auth.Service
	store   *accounttest.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	codec, err := jwt.NewCodec(&jwt.Config{Secret: "test-secret", Issuer: "sincrolab"},
		func() *auth.SessionClaims { return &auth.SessionClaims{} })
	require.NoError(t, err)

	store := accounttest.NewStore()
	svc := auth.NewService(store,
		password.NewBcryptHasher(password.WithCost(bcrypt.MinCost)),
		codec, revocation.NewMemoryRegistry())

	cfg := server.Config{}
	cfg.ApplyDefaults()
	srv := server.New(cfg, middleware.NewAccessGate(svc), logger.Nop())
	require.NoError(t, srv.Mount(api.Routes(api.NewAuthHandler(svc), api.NewUsersHandler(svc, store))...))

	return &harness{t: t, handler: srv.Handler(), svc: svc, store: store}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h *harness) session(rr *httptest.ResponseRecorder) auth.Session {
	h.t.Helper()
	var s auth.Session
	require.NoError(h.t, json.Unmarshal(rr.Body.Bytes(), &s), rr.Body.String())
	return s
}

func (h *harness) adminToken() string {
	h.t.Helper()
	require.NoError(h.t, h.svc.EnsureAdmin(context.Background(), "root@x.com", "R00tP@ss!"))
	rr := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "root@x.com", "password": "R00tP@ss!"})
	require.Equal(h.t, http.StatusOK, rr.Code, rr.Body.String())
	return h.session(rr).AccessToken
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body.Error
}

func creds(email, pw string) map[string]string {
	return map[string]string{"email": email, "password": pw}
}

func TestRegisterLoginLogout_EndToEnd(t *testing.T) {
	h := newHarness(t)

	rr := h.do(http.MethodPost, "/auth/register", "", creds("a@x.com", "P@ssw0rd1"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	a := h.session(rr)
	assert.Equal(t, "a@x.com", a.User.Email)
	assert.Equal(t, account.RoleTherapist, a.User.Role)
	assert.NotEmpty(t, a.AccessToken)

	rr = h.do(http.MethodPost, "/auth/login", "", creds("a@x.com", "P@ssw0rd1"))
	require.Equal(t, http.StatusOK, rr.Code)
	b := h.session(rr)
	assert.NotEqual(t, a.AccessToken, b.AccessToken)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/auth/me", a.AccessToken, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/auth/me", b.AccessToken, nil).Code)

	rr = h.do(http.MethodGet, "/auth/logout", a.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rr.Body.String())

	rr = h.do(http.MethodGet, "/auth/me", a.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", errorBody(t, rr).Message)

	rr = h.do(http.MethodGet, "/auth/me", b.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me auth.Payload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, b.User, me)

	// a revoked token cannot log out again
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/auth/logout", a.AccessToken, nil).Code)
}

func TestRegister_Duplicate(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/auth/register", "", creds("a@x.com", "P@ssw0rd1")).Code)

	rr := h.do(http.MethodPost, "/auth/register", "", creds("a@x.com", "Different1"))
	assert.Equal(t, http.StatusConflict, rr.Code)
	body := errorBody(t, rr)
	assert.Equal(t, apperrors.ErrCodeAlreadyExists, body.Code)
	assert.Equal(t, "User already exists", body.Message)
	assert.Equal(t, 1, h.store.Count())
}

func TestRegister_MultibytePasswordAtMaxLength(t *testing.T) {
	h := newHarness(t)
	pw := strings.Repeat("€", 25) // 25 characters, 75 bytes

	rr := h.do(http.MethodPost, "/auth/register", "", creds("multi@x.com", pw))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = h.do(http.MethodPost, "/auth/login", "", creds("multi@x.com", pw))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, h.session(rr).AccessToken)

	rr = h.do(http.MethodPost, "/auth/login", "", creds("multi@x.com", strings.Repeat("€", 24)+"x"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"bad email", creds("not-an-email", "P@ssw0rd1"), "email"},
		{"short password", creds("a@x.com", "short"), "password"},
		{"long password", creds("a@x.com", strings.Repeat("x", 26)), "password"},
		{"missing fields", map[string]string{}, "email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(http.MethodPost, "/auth/register", "", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			body := errorBody(t, rr)
			assert.Equal(t, apperrors.ErrCodeValidation, body.Code)
			assert.Contains(t, body.Message, tc.field)
		})
	}
	assert.Equal(t, 0, h.store.Count())
}

func TestRegister_MalformedBody(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, errorBody(t, rr).Code)
}

func TestLogin_UniformFailure(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/auth/register", "", creds("a@x.com", "P@ssw0rd1")).Code)

	wrong := h.do(http.MethodPost, "/auth/login", "", creds("a@x.com", "Wrong123!"))
	unknown := h.do(http.MethodPost, "/auth/login", "", creds("b@x.com", "P@ssw0rd1"))

	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "Invalid credentials", errorBody(t, wrong).Message)
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	h := newHarness(t)
	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", http.NoBody)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}
}

func TestUsers_RequireAdmin(t *testing.T) {
	h := newHarness(t)
	rr := h.do(http.MethodPost, "/auth/register", "", creds("t@x.com", "P@ssw0rd1"))
	therapist := h.session(rr).AccessToken

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/users", "", nil).Code)
	rr = h.do(http.MethodGet, "/users", therapist, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Forbidden resource", errorBody(t, rr).Message)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users", h.adminToken(), nil).Code)
}

func TestUsers_CRUD(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	rr := h.do(http.MethodPost, "/users", admin, creds("new@x.com", "P@ssw0rd1"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created account.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, account.RoleTherapist, created.Role)
	assert.NotContains(t, rr.Body.String(), "password")

	assert.Equal(t, http.StatusConflict, h.do(http.MethodPost, "/users", admin, creds("new@x.com", "P@ssw0rd1")).Code)

	rr = h.do(http.MethodGet, "/users/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(http.MethodPatch, "/users/"+created.ID, admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated account.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, account.RoleAdmin, updated.Role)

	rr = h.do(http.MethodPatch, "/users/"+created.ID, admin, map[string]string{"role": "root"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorBody(t, rr).Message, "must be one of: therapist, admin")

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/users/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/users/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/users/"+created.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/users/not-a-uuid", admin, nil).Code)
}

func TestUsers_RoleChangeDoesNotTouchIssuedTokens(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()
	rr := h.do(http.MethodPost, "/auth/register", "", creds("t@x.com", "P@ssw0rd1"))
	s := h.session(rr)

	require.Equal(t, http.StatusOK, h.do(http.MethodPatch, "/users/"+s.User.Sub, admin, map[string]string{"role": "admin"}).Code)

	// the old token still carries therapist
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/users", s.AccessToken, nil).Code)

	rr = h.do(http.MethodPost, "/auth/login", "", creds("t@x.com", "P@ssw0rd1"))
	fresh := h.session(rr)
	assert.Equal(t, account.RoleAdmin, fresh.User.Role)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/users", fresh.AccessToken, nil).Code)
}

func TestUsers_ListPagination(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()
	for i := 0; i < 12; i++ {
		_, err := h.store.Create(context.Background(), fmt.Sprintf("u%02d@x.com", i), "digest", account.RoleTherapist)
		require.NoError(t, err)
	}

	rr := h.do(http.MethodGet, "/users?page=2&limit=5", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Data []account.View  `json:"data"`
		Meta server.PageMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Len(t, page.Data, 5)
	assert.Equal(t, server.PageMeta{Page: 2, Limit: 5, Total: 13}, page.Meta)

	rr = h.do(http.MethodGet, "/users?limit=1000", admin, nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, api.MaxPageSize, page.Meta.Limit)
	assert.Len(t, page.Data, 13)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/users?page=0", admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/users?limit=abc", admin, nil).Code)

	rr = h.do(http.MethodGet, fmt.Sprintf("/users?page=%d&limit=100", math.MaxInt), admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apperrors.ErrCodeValidation, errorBody(t, rr).Code)

	last := math.MaxInt/api.MaxPageSize + 1
	rr = h.do(http.MethodGet, fmt.Sprintf("/users?page=%d&limit=100", last), admin, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Empty(t, page.Data)
}
