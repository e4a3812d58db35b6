package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/transport/client"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(client.New(client.Options{Provider: "mail", BaseURL: srv.URL}))
}

func TestClient_CreateInbox(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, createInboxPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"address": "x@tmp.test", "token": "tok"})
	})

	inbox, err := c.CreateInbox(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.Inbox{Address: "x@tmp.test", Token: "tok"}, inbox)
}

func TestClient_CreateInbox_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.CreateInbox(context.Background())
	assert.ErrorIs(t, err, ErrEmptyInbox)
}

func TestClient_ListEmails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, listEmailsPath, r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`{"emails":[{"from":"noreply@x","subject":"Sign in","body":"hi","html":"<p>hi</p>"}],"expired":false}`))
	})

	emails, err := c.ListEmails(context.Background(), "a b")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "hi", emails[0].Body)
	assert.Equal(t, "<p>hi</p>", emails[0].HTML)
}

func TestPreferredBody(t *testing.T) {
	tests := []struct {
		name  string
		email domain.Email
		want  string
	}{
		{"纯文本优先", domain.Email{Body: "text", HTML: "<b>html</b>"}, "text"},
		{"占位值退回HTML", domain.Email{Body: PlaceholderTextBody, HTML: "<b>html</b>"}, "<b>html</b>"},
		{"占位值且无HTML", domain.Email{Body: PlaceholderTextBody}, ""},
		{"空正文不退回", domain.Email{Body: "", HTML: "<b>html</b>"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreferredBody(tt.email))
		})
	}
}
