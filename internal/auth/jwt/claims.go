package jwt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken 无法解析的令牌
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingClaims 令牌缺少设备或工作区声明
	ErrMissingClaims = errors.New("token missing deviceId or teams claims")
)

// Claims 魔法链接访问令牌中的自定义声明
//
// teams 保留原始 JSON：上游可能下发字符串数组、数字数组或以团队 ID 为键的对象。
type Claims struct {
	DeviceID string          `json:"deviceId"`
	Teams    json.RawMessage `json:"teams"`
	jwt.RegisteredClaims
}

// Workspace 返回第一个工作区 ID，取不到时返回空串
func (c *Claims) Workspace() string {
	ws, _ := firstTeam(c.Teams)
	return ws
}

// firstTeam 取 teams 的第一项：数组取首元素，对象取首个键。
// 非字符串元素按 JSON 字面量输出。
func firstTeam(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}

	switch tok {
	case json.Delim('['):
		if !dec.More() {
			return "", false
		}
		var first json.RawMessage
		if err := dec.Decode(&first); err != nil {
			return "", false
		}
		var s string
		if json.Unmarshal(first, &s) == nil {
			return s, true
		}
		return string(first), true
	case json.Delim('{'):
		key, err := dec.Token()
		if err != nil {
			return "", false
		}
		s, ok := key.(string)
		return s, ok
	}
	return "", false
}

// DecodeUnverified 解析访问令牌的声明，不校验签名。
//
// 令牌由下游认证服务签发，这里只读取 deviceId 和 teams；
// 签名校验不在此处进行，需要时只改这一个函数。
func DecodeUnverified(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if _, ok := firstTeam(claims.Teams); claims.DeviceID == "" || !ok {
		return nil, ErrMissingClaims
	}

	return claims, nil
}
