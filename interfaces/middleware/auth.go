package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/vallemarketing/valle360-social/domain/dto"
	"github.com/vallemarketing/valle360-social/domain/model"
)

// ContextTenantID is the gin context key the auth middleware resolves the
// tenant into.
const ContextTenantID = "tenant_id"

// Auth validates the dashboard-issued bearer token and stores the tenant id
// in the request context. Everything under /api runs behind it.
func Auth(secretKey string) gin.HandlerFunc {
	res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		parts := strings.Split(authorization, "Bearer ")
		if len(parts) != 2 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		claims, err := parseClaims(parts[1], secretKey)
		if err != nil {
			r := res
			r.ResponseMessage = classify(err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, r)
			return
		}
		ctx.Set(ContextTenantID, claims.TenantID)
		ctx.Next()
	}
}

// TenantID reads the authenticated tenant from the gin context.
func TenantID(ctx *gin.Context) string {
	return ctx.GetString(ContextTenantID)
}

func parseClaims(raw, secretKey string) (*model.TenantClaims, error) {
	claims := &model.TenantClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.TenantID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func classify(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return "Token expired or not active yet"
		}
	}
	return "Unauthorized"
}
