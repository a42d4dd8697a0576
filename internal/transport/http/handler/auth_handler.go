package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lapor-fasilitas/internal/domain"
	"lapor-fasilitas/internal/service"
	"lapor-fasilitas/internal/transport/http/middleware"
)

const refreshCookie = "refreshToken"
const refreshCookieMaxAge = 24 * 60 * 60 // 1 day, matches the refresh token TTL

// AuthHandler serves registration, the login/refresh/logout token flow
// and the user listing endpoints. Responses keep the legacy shapes the
// frontend depends on (no {success} envelope here).
type AuthHandler struct {
	svc          *service.AuthService
	secureCookie bool
}

func NewAuthHandler(svc *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie}
}

func (h *AuthHandler) Mount(public, protected *gin.RouterGroup) {
	public.POST("/register", h.register)
	public.POST("/login", h.login)
	public.GET("/token", h.refresh)
	public.DELETE("/logout", h.logout)

	protected.GET("/users/profile", h.profile)
	protected.GET("/users", h.listUsers)
}

type registerRequest struct {
	Nama            string `json:"nama"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request tidak valid"})
		return
	}

	u, err := h.svc.Register(req.Nama, req.Email, req.Password, req.ConfirmPassword, req.Role)
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password tidak sama"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email sudah terdaftar"})
	case err != nil:
		h.serverError(c, err)
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message": "User berhasil dibuat",
			"data": gin.H{
				"id":    u.ID,
				"nama":  u.Nama,
				"email": u.Email,
				"role":  u.Role,
			},
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request tidak valid"})
		return
	}

	res, err := h.svc.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User tidak ditemukan"})
	case errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Password salah"})
	case err != nil:
		h.serverError(c, err)
	default:
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(refreshCookie, res.RefreshToken, refreshCookieMaxAge, "/", "", h.secureCookie, true)
		c.JSON(http.StatusOK, gin.H{
			"accessToken": res.AccessToken,
			"message":     "Login berhasil",
			"user": gin.H{
				"id":    res.User.ID,
				"nama":  res.User.Nama,
				"email": res.User.Email,
				"role":  res.User.Role,
			},
		})
	}
}

func (h *AuthHandler) refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		c.Status(http.StatusUnauthorized)
		return
	}

	access, err := h.svc.Refresh(token)
	switch {
	case errors.Is(err, service.ErrRefreshNotFound):
		c.Status(http.StatusForbidden)
	case errors.Is(err, service.ErrRefreshInvalid):
		c.JSON(http.StatusForbidden, gin.H{"message": "Invalid refresh token"})
	case err != nil:
		h.serverError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"accessToken": access})
	}
}

func (h *AuthHandler) logout(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		c.Status(http.StatusNoContent)
		return
	}

	cleared, err := h.svc.Logout(token)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !cleared {
		c.Status(http.StatusNoContent)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout berhasil"})
}

func (h *AuthHandler) profile(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	u, err := h.svc.Profile(claims.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User tidak ditemukan"})
	case err != nil:
		h.serverError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{
			"id":         u.ID,
			"nama":       u.Nama,
			"email":      u.Email,
			"role":       u.Role,
			"created_at": u.CreatedAt,
		})
	}
}

func (h *AuthHandler) listUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Data users berhasil diambil",
		"data":    users,
	})
}

func (h *AuthHandler) serverError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Terjadi Kesalahan pada server",
		"error":   err.Error(),
	})
}
