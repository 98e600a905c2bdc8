package middleware

import (
	"errors"
	"strings"

	"spsc-alumni/internal/config"
	"spsc-alumni/internal/core/domain"
	"spsc-alumni/internal/core/services"
	"spsc-alumni/internal/pkg/jwt"
	"spsc-alumni/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. The token claims are not
// trusted on their own: the user is re-loaded from the store on every request
// so deactivated or deleted accounts lose access immediately.
func AuthMiddleware(cfg *config.Config, authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Re-load user from the store
		user, err := authService.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			return response.Unauthorized(c, "Invalid access token")
		}
		if !user.IsActive {
			return response.Unauthorized(c, "บัญชีผู้ใช้ถูกระงับ")
		}

		// 6. Set user info in context (role from the store, not the token)
		c.Locals("userID", user.ID)
		c.Locals("username", user.Username)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleAdmin))
}

// StaffOrAdmin middleware allows staff or admin roles
func StaffOrAdmin() fiber.Handler {
	return RoleMiddleware(string(domain.RoleStaff), string(domain.RoleAdmin))
}
