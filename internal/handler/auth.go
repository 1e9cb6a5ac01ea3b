package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/config"
	"github.com/cineplex/booking-gateway/internal/middleware"
	"github.com/cineplex/booking-gateway/internal/session"
)

// AuthHandler proxies credential exchange to the remote auth service
// and turns its token responses into cookie-backed sessions.  The
// gateway never sees a password beyond forwarding it.
type AuthHandler struct {
	Cfg   config.Config
	API   *api.Client
	Store session.Store

	// OnSessionEnd runs after a session is torn down, so state keyed by
	// the session ID elsewhere (the per-session guards) is released too.
	OnSessionEnd func(sessionID string)
}

func NewAuthHandler(cfg config.Config, client *api.Client, store session.Store, onSessionEnd func(sessionID string)) *AuthHandler {
	if client == nil || store == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, API: client, Store: store, OnSessionEnd: onSessionEnd}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account upstream and signs the visitor in
// immediately, mirroring the store's register-then-login behavior.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	res, err := h.API.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return storeError(c, err)
	}
	return h.establishSession(c, res, http.StatusCreated)
}

// Login exchanges credentials for an upstream token and establishes
// the local session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	res, err := h.API.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return storeError(c, err)
	}
	return h.establishSession(c, res, http.StatusOK)
}

// Logout drops the session both in the store and on the client.  A
// request without a cookie still succeeds; logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.Store.Delete(c.Request().Context(), cookie.Value); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session delete failed"})
		}
		if h.OnSessionEnd != nil {
			h.OnSessionEnd(cookie.Value)
		}
	}
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the user attached to the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	s := middleware.CurrentSession(c)
	if s == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, s.User)
}

func (h *AuthHandler) establishSession(c echo.Context, res *api.AuthResult, status int) error {
	if res == nil || res.Token == "" || res.User.ID == "" {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "auth service returned an unusable response"})
	}
	sess := session.New(res.Token, res.User)
	if err := h.Store.Save(c.Request().Context(), sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session save failed"})
	}
	c.SetCookie(h.sessionCookie(sess.ID, int(h.Cfg.SessionTTL.Seconds())))
	return c.JSON(status, echo.Map{"user": res.User})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	}
}
