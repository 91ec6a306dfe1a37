package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/config"
	"github.com/iliyamo/dealership-reviews/internal/middleware"
	"github.com/iliyamo/dealership-reviews/internal/model"
	"github.com/iliyamo/dealership-reviews/internal/repository"
	"github.com/iliyamo/dealership-reviews/internal/utils"
)

// UserStore is the subset of the user repository the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, u repository.NewUser, cost int) (uint64, error)
	Exists(ctx context.Context, username string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
}

// SessionStore persists and revokes login sessions.
type SessionStore interface {
	Store(ctx context.Context, username, tokenHash string, exp time.Time) error
	Revoke(ctx context.Context, tokenHash string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Sessions SessionStore
}

func NewAuthHandler(cfg config.Config, u UserStore, s SessionStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	UserName string `json:"userName" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type registerReq struct {
	UserName  string `json:"userName" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=150"`
	LastName  string `json:"lastName" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,max=254"`
}

// Login checks credentials and opens a session. A failed login still
// answers 200 but carries no status field.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"userName": req.UserName})
		}
		log.Error().Err(err).Str("username", req.UserName).Msg("login lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if err := h.startSession(ctx, c, u.Username); err != nil {
		log.Error().Err(err).Str("username", u.Username).Msg("session start failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"userName": u.Username, "status": "Authenticated"})
}

// Register creates the user and logs them in. A taken username answers
// 200 with an error message and creates nothing.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := decodeJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}
	alreadyRegistered := echo.Map{"userName": req.UserName, "error": "Already Registered"}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	exists, err := h.Users.Exists(ctx, req.UserName)
	if err != nil {
		log.Error().Err(err).Str("username", req.UserName).Msg("username lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	if exists {
		return c.JSON(http.StatusOK, alreadyRegistered)
	}

	_, err = h.Users.Create(ctx, repository.NewUser{
		Username:  req.UserName,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusOK, alreadyRegistered)
		}
		log.Error().Err(err).Str("username", req.UserName).Msg("create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	log.Info().Str("username", req.UserName).Msg("user registered")

	if err := h.startSession(ctx, c, req.UserName); err != nil {
		log.Error().Err(err).Str("username", req.UserName).Msg("session start failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"userName": req.UserName, "status": "Authenticated"})
}

// Logout revokes the current session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if hash, ok := middleware.SessionHash(c); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()
		if err := h.Sessions.Revoke(ctx, hash); err != nil {
			log.Warn().Err(err).Msg("session revoke failed")
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"userName": ""})
}

// startSession issues a session token, stores its hash and sets the cookie.
func (h *AuthHandler) startSession(ctx context.Context, c echo.Context, username string) error {
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, username, h.Cfg.SessionTTL)
	if err != nil {
		return err
	}
	if err := h.Sessions.Store(ctx, username, utils.HashSessionID(tok.SessionID), tok.Exp); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
