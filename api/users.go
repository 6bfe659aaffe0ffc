package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/huzzdev/sincrolab-backend/account"
	"github.com/huzzdev/sincrolab-backend/auth"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/server"
)

// Listing bounds for GET /users.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type updateUserRequest struct {
	Role *account.Role `json:"role" validate:"omitempty,oneof=therapist admin"`
}

// UsersHandler serves the admin-only /users resource.
type UsersHandler struct {
	svc   *auth.Service
	store account.Store
}

// NewUsersHandler creates the /users handlers. Accounts are created through
// svc so passwords are hashed the same way as on registration.
func NewUsersHandler(svc *auth.Service, store account.Store) *UsersHandler {
	return &UsersHandler{svc: svc, store: store}
}

// Routes returns the /users route table.
func (h *UsersHandler) Routes() []server.Route {
	admin := server.RequireRoles(account.RoleAdmin)
	return []server.Route{
		{Method: http.MethodPost, Path: "/users", Access: admin, Handler: h.Create},
		{Method: http.MethodGet, Path: "/users", Access: admin, Handler: h.List},
		{Method: http.MethodGet, Path: "/users/:id", Access: admin, Handler: h.Get},
		{Method: http.MethodPatch, Path: "/users/:id", Access: admin, Handler: h.Update},
		{Method: http.MethodDelete, Path: "/users/:id", Access: admin, Handler: h.Delete},
	}
}

// Create handles POST /users. New accounts are always therapists.
func (h *UsersHandler) Create(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	acc, err := h.svc.CreateAccount(c.Request.Context(), req.Email, req.Password, account.RoleTherapist)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, acc.View())
}

// List handles GET /users?page=&limit=.
func (h *UsersHandler) List(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	accounts, total, err := h.store.List(c.Request.Context(), page)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(fmt.Errorf("list accounts: %w", err)))
		return
	}
	views := make([]account.View, 0, len(accounts))
	for i := range accounts {
		views = append(views, accounts[i].View())
	}
	server.RespondPage(c, views, server.PageMeta{Page: page.Number, Limit: page.Size, Total: total})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	acc, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, storeError(err, id))
		return
	}
	server.RespondOK(c, acc.View())
}

// Update handles PATCH /users/:id. Tokens already issued to the account
// keep the role they were issued with.
func (h *UsersHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	var acc *account.Account
	if req.Role == nil {
		acc, err = h.store.FindByID(ctx, id)
	} else {
		acc, err = h.store.UpdateRole(ctx, id, *req.Role)
	}
	if err != nil {
		server.RespondWithError(c, storeError(err, id))
		return
	}
	server.RespondOK(c, acc.View())
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, storeError(err, id))
		return
	}
	server.RespondNoContent(c)
}

func idParam(c *gin.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NotFound("user", id)
	}
	return id, nil
}

func pageFromQuery(c *gin.Context) (account.Page, error) {
	page := account.Page{Number: 1, Size: DefaultPageSize}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperrors.Validation("page must be a positive integer")
		}
		page.Number = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperrors.Validation("limit must be a positive integer")
		}
		page.Size = min(n, MaxPageSize)
	}
	if page.Number-1 > math.MaxInt/page.Size {
		return page, apperrors.Validation("page is out of range")
	}
	return page, nil
}

func storeError(err error, id string) error {
	if errors.Is(err, account.ErrNotFound) {
		return apperrors.NotFound("user", id)
	}
	return apperrors.Internal(err)
}
