package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "cultivation-backend/lib/utils/auth-utils"
	"cultivation-backend/models"
	apimodels "cultivation-backend/models/api"
)

func GetUserFacility(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if facility, exist := claims["facility"]; exist {
		return facility.(string)
	}
	return ""
}

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetFacilityRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

func FacilityAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if GetFacilityRole(ctx) != models.FacilityAdminRole {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
