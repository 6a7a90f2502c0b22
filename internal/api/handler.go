package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vkuzn/sessiond/internal/common"
	"github.com/vkuzn/sessiond/internal/services"
)

// SessionFlows is what the handlers need from the session service.
type SessionFlows interface {
	Login(ctx context.Context, usernameOrEmail, password, source string) (*services.TokenPair, error)
	Register(ctx context.Context, username, email, password, source string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken, source string) (*services.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	ValidateAccount(ctx context.Context, validateToken, username string) error
}

type Handler struct {
	sessions SessionFlows
}

func NewHandler(sessions SessionFlows) *Handler {
	return &Handler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Source   string `json:"source"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Source   string `json:"source"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	Source       string `json:"source"`
}

type logoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type validateRequest struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type errorResult struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResult{ErrorCode: status, ErrorMessage: message})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}
	if req.Username == "" || req.Password == "" || req.Source == "" {
		return errorJSON(c, http.StatusBadRequest, "username, password and source are required")
	}

	pair, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return errorJSON(c, http.StatusUnauthorized, "invalid username or password")
		default:
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Source == "" {
		return errorJSON(c, http.StatusBadRequest, "username, email, password and source are required")
	}

	pair, err := h.sessions.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorConflict):
			return errorJSON(c, http.StatusConflict, common.ErrorConflict.Error())
		default:
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusCreated, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}
	if req.RefreshToken == "" || req.Source == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token and source are required")
	}

	pair, err := h.sessions.Refresh(c.Request().Context(), req.RefreshToken, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, common.ErrorNotFound):
			return errorJSON(c, http.StatusNotFound, "user not found")
		default:
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		return errorJSON(c, http.StatusBadRequest, "access_token and refresh_token are required")
	}

	if err := h.sessions.Logout(c.Request().Context(), req.AccessToken, req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return errorJSON(c, http.StatusUnauthorized, "invalid access token")
		default:
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "malformed request")
	}
	if req.Token == "" || req.Username == "" {
		return errorJSON(c, http.StatusBadRequest, "token and username are required")
	}

	if err := h.sessions.ValidateAccount(c.Request().Context(), req.Token, req.Username); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return errorJSON(c, http.StatusUnauthorized, "invalid validation token")
		case errors.Is(err, common.ErrorNotFound):
			return errorJSON(c, http.StatusNotFound, "user not found")
		case errors.Is(err, common.ErrorAlreadyVerified):
			return errorJSON(c, http.StatusConflict, common.ErrorAlreadyVerified.Error())
		default:
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}
	}

	return c.NoContent(http.StatusNoContent)
}
