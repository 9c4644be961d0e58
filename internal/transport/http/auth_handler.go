package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"officehours/backend/internal/domain"
	"officehours/backend/internal/service/identity"
)

type identityService interface {
	Register(ctx context.Context, in identity.RegisterInput) (identity.AuthResult, error)
	Login(ctx context.Context, email, password string, role domain.Role) (identity.AuthResult, error)
	Profile(ctx context.Context, id uuid.UUID, role domain.Role) (identity.Identity, error)
}

type authHandler struct {
	identity identityService
	log      *slog.Logger
}

func newAuthHandler(identity identityService, log *slog.Logger) *authHandler {
	return &authHandler{identity: identity, log: log}
}

func (h *authHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email, password and role are required"})
		return
	}

	out, err := h.identity.Register(c.Request.Context(), identity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	h.log.Info("party registered",
		slog.String("party_id", out.Identity.ID.String()),
		slog.String("role", string(out.Identity.Role)),
	)
	c.JSON(http.StatusCreated, authResponse{
		Message: "registration successful",
		Token:   out.Token,
		User:    toPartyResponse(out.Identity),
	})
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and role are required"})
		return
	}

	out, err := h.identity.Login(c.Request.Context(), req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message: "login successful",
		Token:   out.Token,
		User:    toPartyResponse(out.Identity),
	})
}

func (h *authHandler) profile(c *gin.Context) {
	out, err := h.identity.Profile(c.Request.Context(), callerID(c), callerRole(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toPartyResponse(out)})
}
