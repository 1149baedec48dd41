package jwttoken

import (
	"contacts/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *middleware.SessionClaims {
	return &middleware.SessionClaims{
		SessionID: claims.SessionID,
		Username:  claims.Subject,
	}
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.SessionClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
