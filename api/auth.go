package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/auth/authctx"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/server"
)

// credentials is the body of register and login.
type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=25"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler serves /auth.
type AuthHandler struct {
	svc *auth.Service
}

// NewAuthHandler creates the /auth handlers.
func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Routes returns the /auth route table.
func (h *AuthHandler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodPost, Path: "/auth/register", Access: server.PublicAccess, Handler: h.Register},
		{Method: http.MethodPost, Path: "/auth/login", Access: server.PublicAccess, Handler: h.Login},
		{Method: http.MethodGet, Path: "/auth/logout", Access: server.Authenticated, Handler: h.Logout},
		{Method: http.MethodGet, Path: "/auth/me", Access: server.Authenticated, Handler: h.Me},
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	session, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, session)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, session)
}

// Logout handles GET /auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	token, ok := authctx.Token(ctx)
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}
	if err := h.svc.Logout(ctx, token); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, MessageResponse{Message: "Logged out"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, err := authctx.GetOrError[*auth.SessionClaims](c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}
	server.RespondOK(c, claims.Payload())
}
