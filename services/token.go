package services

import (
	"errors"
	"fmt"
	"time"

	"main/utils"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "keepnotes"

// GenerateToken creates a short-lived access token for the user.
func GenerateToken(userID string) (string, error) {
	return generateSignedToken(userID, "access",
		time.Duration(utils.JWTExpirationTime)*time.Second)
}

// GenerateRefreshToken creates a long-lived refresh token for the user.
func GenerateRefreshToken(userID string) (string, error) {
	return generateSignedToken(userID, "refresh",
		time.Duration(utils.RefreshTokenExpirationTime)*time.Second)
}

func generateSignedToken(userID, tokenType string, lifetime time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     tokenIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ValidateToken parses a token and returns the user id it carries.
func ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("invalid user ID in token")
	}
	return userID, nil
}
