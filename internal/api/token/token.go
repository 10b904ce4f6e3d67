// Package token 统一签发与校验 Bearer token。
//
// 普通用户与管理员走同一条签发/校验路径，通过 claims 里的
// 判别字段区分（用户: id+email；管理员: username+is_admin）。
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid 表示 token 无效（签名错误、过期或 claims 不完整）。
var ErrInvalid = errors.New("invalid token")

// Claims 是判别式载荷：Admin=false 时 Subject 为用户 ID、Email 有值；
// Admin=true 时 Subject 为管理员账号名。
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Admin bool   `json:"is_admin,omitempty"`
}

// IssueUser 为普通用户签发 token。
func IssueUser(secret []byte, userID uint, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IssueAdmin 为管理员签发 token。
func IssueAdmin(secret []byte, username string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Admin: true,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse 校验 token 并返回 claims。
func Parse(secret []byte, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

// UserID 解析用户 token 的主体为用户 ID。
func (c *Claims) UserID() (uint, error) {
	if c.Admin {
		return 0, ErrInvalid
	}
	uid, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return uint(uid), nil
}
