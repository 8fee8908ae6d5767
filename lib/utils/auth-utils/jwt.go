package authutils

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"cultivation-backend/config"
	"cultivation-backend/models"
)

func GetToken(userID, name, facilityID string, role models.UserRole) (tokenString string, err error) {
	claims := jwt.MapClaims{
		"name":     name,
		"sub":      userID,
		"facility": facilityID,
		"role":     string(role),
		"exp":      time.Now().Add(time.Minute * time.Duration(config.Conf.Auth.TokenTTLMin)).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Conf.Auth.JWTSecret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	return token.Claims.(jwt.MapClaims)
}

func GetMD5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}
