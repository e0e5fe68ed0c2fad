package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hemaperikala/is-it-ready/internal/models"
	"github.com/hemaperikala/is-it-ready/internal/supabase"
)

type AuthHandler struct {
	authClient *supabase.AuthClient
}

func NewAuthHandler(authClient *supabase.AuthClient) *AuthHandler {
	return &AuthHandler{
		authClient: authClient,
	}
}

// SignUp godoc
// @Summary     Register a shop
// @Description Creates a Supabase account with the shop name stored as user metadata. The account must be confirmed by email before signing in.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignUpRequest true "Shop registration"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" || req.ShopName == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email, password and shop name are required"})
		return
	}

	if err := h.authClient.SignUp(req.Email, req.Password, req.ShopName); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to sign up",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "check your email to confirm your account",
	})
}

// SignIn godoc
// @Summary     Sign in
// @Description Exchanges shop credentials for a Supabase session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.SignInRequest true "Credentials"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "email and password are required"})
		return
	}

	session, err := h.authClient.SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid credentials",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		Email:        req.Email,
		ShopName:     supabase.ShopName(session),
	})
}

// SignOut godoc
// @Summary     Sign out
// @Description Revokes the session behind the supplied access token
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.MessageResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization header"})
		return
	}

	if err := h.authClient.SignOut(strings.TrimSpace(parts[1])); err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "failed to sign out",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "signed out"})
}
