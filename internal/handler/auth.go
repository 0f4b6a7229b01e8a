package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
	"nft-storefront/internal/service"
)

type AuthHandler struct {
	auth   *service.Auth
	google config.Google
}

func NewAuthHandler(auth *service.Auth, google config.Google) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		google: google,
	}
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

type magicLinkRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type sessionResponse struct {
	Authenticated  bool        `json:"authenticated"`
	User           *model.User `json:"user,omitempty"`
	TokenExpiresAt *time.Time  `json:"token_expires_at,omitempty"`
	Error          string      `json:"error,omitempty"`
}

func (h *AuthHandler) session() *sessionResponse {
	return &sessionResponse{
		Authenticated:  h.auth.IsAuthenticated(),
		User:           h.auth.User(),
		TokenExpiresAt: h.auth.TokenExpiresAt(),
		Error:          h.auth.Err(),
	}
}

// Config exposes the public auth settings the storefront needs to
// render its login affordances.
func (h *AuthHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"google_client_id": h.google.ClientID,
	})
}

func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	if h.google.ClientID == "" {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "google login is not configured")
	}

	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Credential == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing credential")
	}

	if !h.auth.Login(ctx, req.Credential) {
		return c.JSON(http.StatusUnauthorized, h.session())
	}
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHandler) RequestMagicLink(c echo.Context) error {
	ctx := c.Request().Context()

	var req magicLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing email")
	}

	if err := h.auth.RequestMagicLink(ctx, req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) VerifyMagicLink(c echo.Context) error {
	ctx := c.Request().Context()

	var req magicLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}

	if !h.auth.LoginWithMagicLink(ctx, req.Token) {
		return c.JSON(http.StatusUnauthorized, h.session())
	}
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHandler) RefreshMe(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.auth.RefreshUser(ctx) {
		return c.JSON(http.StatusUnauthorized, h.session())
	}
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var patch model.UserUpdate
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if !h.auth.UpdateProfile(ctx, &patch) {
		return c.JSON(http.StatusUnauthorized, h.session())
	}
	return c.JSON(http.StatusOK, h.session())
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	h.auth.Logout(ctx)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
