package middleware

import (
	"net/http"
	"strings"

	"github.com/Zuis050623/jajan-utm/pkg/jwtutil"
	"github.com/Zuis050623/jajan-utm/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MerchantAuthMiddleware creates a middleware that validates merchant JWT tokens
func MerchantAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Extract the token from the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			tokenString := parts[1]

			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store the merchant identity in the context for handlers
			c.Set("merchant", claims)
			log.Debug("Merchant token validated",
				zap.Uint("merchant_id", claims.MerchantID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// MerchantFromContext returns the authenticated merchant claims set by
// MerchantAuthMiddleware, or nil when the request is unauthenticated.
func MerchantFromContext(c echo.Context) *jwtutil.MerchantClaims {
	claims, ok := c.Get("merchant").(*jwtutil.MerchantClaims)
	if !ok {
		return nil
	}
	return claims
}
