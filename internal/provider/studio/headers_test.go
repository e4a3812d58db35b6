package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imagegate/backend/internal/domain"
)

func TestBuildHeaders(t *testing.T) {
	settings := HeaderSettings{
		Origin:      "https://studio.example.com",
		CountryCode: "IN",
		ClientIP:    "27.60.15.17",
		Platform:    "STUDIO",
		UserAgent:   "Mozilla/5.0",
	}
	token := domain.TokenData{Token: "jwt", DeviceID: "d1", Workspace: "w1"}

	headers := BuildHeaders(settings, token)

	assert.Equal(t, map[string]string{
		"authorization":            "Bearer jwt",
		"content-type":             "application/json",
		"origin":                   "https://studio.example.com",
		"referer":                  "https://studio.example.com/",
		"user-agent":               "Mozilla/5.0",
		"x-user-country":           "IN",
		"x-user-current-workspace": "w1",
		"x-user-device-id":         "d1",
		"x-user-ip":                "27.60.15.17",
		"x-user-platform":          "STUDIO",
	}, headers)
}
