package handlers

import (
	"errors"
	"time"

	"spsc-alumni/internal/config"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/response"
	"spsc-alumni/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// BootstrapStatus reports whether the first admin has been created yet.
// The setup page uses this to decide whether to show the bootstrap form.
func (h *AuthHandler) BootstrapStatus(c *fiber.Ctx) error {
	hasAdmin, err := h.authService.HasAdmin(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to check bootstrap status")
	}

	return response.Success(c, "Bootstrap status retrieved", fiber.Map{
		"has_admin": hasAdmin,
	})
}

// Bootstrap creates the first admin account. Sealed after the first success.
func (h *AuthHandler) Bootstrap(c *fiber.Ctx) error {
	var input services.BootstrapInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	result, err := h.authService.CreateFirstAdmin(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdminExists):
			return response.Forbidden(c, "ระบบถูกติดตั้งแล้ว ไม่สามารถสร้างผู้ดูแลระบบซ้ำได้")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "ชื่อผู้ใช้หรืออีเมลนี้ถูกใช้งานแล้ว")
		default:
			return response.InternalServerError(c, "Failed to create admin account")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "สร้างบัญชีผู้ดูแลระบบสำเร็จ", fiber.Map{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.ValidateStruct(&input); err != nil {
		return response.BadRequest(c, validation.FormatErrors(err))
	}

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "ชื่อผู้ใช้หรือรหัสผ่านไม่ถูกต้อง")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Forbidden(c, "บัญชีผู้ใช้ถูกระงับ")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "เข้าสู่ระบบสำเร็จ", fiber.Map{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

// RefreshToken handles token refresh with rotation
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, domain.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, domain.ErrUserInactive):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "บัญชีผู้ใช้ถูกระงับ")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "ออกจากระบบสำเร็จ", nil)
}

// LogoutAll handles logout from all devices
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "ออกจากระบบทุกอุปกรณ์สำเร็จ", nil)
}

// Me returns the current user info
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
