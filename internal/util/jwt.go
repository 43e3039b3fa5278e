package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired 只读取声明里的 exp，不校验签名——签名密钥在服务端。
// 非 JWT 的不透明令牌一律当作未过期处理。
func TokenExpired(tokenString string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
