package studio

import "imagegate/backend/internal/domain"

// HeaderSettings 调用生成服务时附带的固定请求头取值
type HeaderSettings struct {
	Origin      string // 如 https://studio.example.com
	CountryCode string
	ClientIP    string
	Platform    string
	UserAgent   string
}

// BuildHeaders 根据访问凭据组装生成服务所需的请求头
func BuildHeaders(s HeaderSettings, token domain.TokenData) map[string]string {
	return map[string]string{
		"authorization":            "Bearer " + token.Token,
		"content-type":             "application/json",
		"origin":                   s.Origin,
		"referer":                  s.Origin + "/",
		"user-agent":               s.UserAgent,
		"x-user-country":           s.CountryCode,
		"x-user-current-workspace": token.Workspace,
		"x-user-device-id":         token.DeviceID,
		"x-user-ip":                s.ClientIP,
		"x-user-platform":          s.Platform,
	}
}
