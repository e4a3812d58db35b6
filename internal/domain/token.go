package domain

// MagicLinkRequest 魔法链接登录请求
type MagicLinkRequest struct {
	Email    string
	DeviceID string
}

// TokenData 是生成流程所需的访问凭据组合。
//
// 仅在产生它的那个请求内有效，不缓存、不跨请求共享。
type TokenData struct {
	Token     string `json:"token"`
	DeviceID  string `json:"deviceId"`
	Workspace string `json:"workspace"`
}
