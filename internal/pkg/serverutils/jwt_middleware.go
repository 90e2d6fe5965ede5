package serverutils

import (
	"strings"

	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDLocal = "user_id"

type AccessTokenParser interface {
	ParseAccess(tokenString string) (*token.Claims, error)
}

// NewJwtMiddleware accepts "Authorization: Bearer <access token>" and stores
// the subject in ctx.Locals("user_id") as a uuid.UUID.
func NewJwtMiddleware(parser AccessTokenParser) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			return apperror.Unauthorized("Authentication credentials were not provided.")
		}

		claims, err := parser.ParseAccess(strings.TrimSpace(tokenStr))
		if err != nil {
			return apperror.Wrap(apperror.KindUnauthorized, "Given token not valid for any token type", err)
		}

		userId, err := uuid.Parse(claims.UserID)
		if err != nil {
			return apperror.Unauthorized("Token contained no recognizable user identification")
		}

		ctx.Locals(userIDLocal, userId)
		return ctx.Next()
	}
}

// CurrentUserID reads the subject stored by the JWT middleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := ctx.Locals(userIDLocal).(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.Unauthorized("Authentication credentials were not provided.")
	}
	return userId, nil
}
