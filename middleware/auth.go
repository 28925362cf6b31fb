package middleware

import (
	"os"

	"Aegis/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// SigningKey returns the JWT secret. JWT_SECRET must be set in
// production; the fallback only exists so local dev works out of the
// box.
func SigningKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-secret")
}

// Verify authenticates the jwt cookie, loads the user and stores it in
// c.Locals("user"). With no roles listed any authenticated user
// passes; otherwise the user's role must be one of the given roles.
func Verify(db *gorm.DB, roles ...Models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies("jwt")
		if cookie == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Logged In.",
			})
		}

		token, err := jwt.ParseWithClaims(cookie, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return SigningKey(), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		var user Models.User
		if err := db.Where("id = ?", claims.Issuer).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}

		// Store user in context for later use in handlers
		c.Locals("user", user)

		if len(roles) == 0 {
			return c.Next()
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions to access this resource",
		})
	}
}

// CurrentUser returns the user stored by Verify, or false when the
// route was not guarded.
func CurrentUser(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals("user").(Models.User)
	return user, ok
}
