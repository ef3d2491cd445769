package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/digikhata/khata.go/db/models"
	"github.com/digikhata/khata.go/lib/security"
	"github.com/digikhata/khata.go/lib/tokens"
	"github.com/digikhata/khata.go/rabbitmq"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

type KhataService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	TxPubSub       *Pubsub
	RabbitMQClient rabbitmq.Client
}

func (svc *KhataService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user *models.User

	switch {
	case login != "" || password != "":
		{
			user, err = svc.FindUserByLogin(ctx, login)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			if !security.VerifyPassword(user.Password, password) {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userId, err := tokens.GetUserIdFromToken(svc.Config.JWTSecret, inRefreshToken)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			user, err = svc.FindUser(ctx, userId)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	default:
		{
			return "", "", fmt.Errorf("login and password or refresh token is required")
		}
	}

	if user.Deactivated {
		return "", "", fmt.Errorf("bad auth")
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func randBytesFromStr(length int, from string) ([]byte, error) {
	b := make([]byte, length)
	fromLenBigInt := big.NewInt(int64(len(from)))
	for i := range b {
		r, err := rand.Int(rand.Reader, fromLenBigInt)
		if err != nil {
			return nil, err
		}
		b[i] = from[r.Int64()]
	}
	return b, nil
}
