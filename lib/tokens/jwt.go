package tokens

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/digikhata/khata.go/db/models"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

type jwtCustomClaims struct {
	ID        int64 `json:"id"`
	IsRefresh bool  `json:"isRefresh"`

	jwt.StandardClaims
}

// GenerateAccessToken : Generate Access Token
func GenerateAccessToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &jwtCustomClaims{
		ID:        u.ID,
		IsRefresh: false,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

// GenerateRefreshToken : Generate Refresh Token
func GenerateRefreshToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &jwtCustomClaims{
		ID:        u.ID,
		IsRefresh: true,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return t, nil
}

func parseToken(secret []byte, tokenString string) (*jwtCustomClaims, error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetUserIdFromToken extracts the user id from a refresh token.
func GetUserIdFromToken(secret []byte, tokenString string) (int64, error) {
	claims, err := parseToken(secret, tokenString)
	if err != nil {
		return 0, err
	}
	if !claims.IsRefresh {
		return 0, fmt.Errorf("not a refresh token")
	}
	return claims.ID, nil
}

// Middleware authenticates requests with an access token from the
// Authorization header and stores the user id under "UserID".
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
			}
			claims, err := parseToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
			}
			// refresh tokens are only good for the auth endpoint
			if claims.IsRefresh {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
			}
			c.Set("UserID", claims.ID)
			return next(c)
		}
	}
}
