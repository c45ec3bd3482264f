package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit-dev/stackit/backend/internal/ai"
	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/middleware"
)

type stubGenerator struct {
	out string
	err error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.out, s.err
}

func newTestHandler(gen ai.Generator) *Handler {
	return NewHandler(Deps{
		Assistant: ai.NewAssistant(gen, time.Second),
		Tokens:    auth.NewTokenManager("secret", time.Hour),
		Auth:      config.AuthConfig{CookieSecure: true},
	})
}

// asUser stands in for the auth middleware.
func asUser(id int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAIHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		gen      ai.Generator
		path     string
		body     string
		wantCode int
		wantData any
		wantErr  string
	}{
		{
			name:     "markdown",
			gen:      stubGenerator{out: "# Title"},
			path:     "/ai/markdown",
			body:     `{"text":"title"}`,
			wantCode: http.StatusOK,
			wantData: "# Title",
		},
		{
			name:     "tags",
			gen:      stubGenerator{out: "```json\n[\"Go\", \"gin\"]\n```"},
			path:     "/ai/tags",
			body:     `{"text":"a gin question"}`,
			wantCode: http.StatusOK,
			wantData: []any{"go", "gin"},
		},
		{
			name:     "unparseable tags",
			gen:      stubGenerator{out: "sorry, no idea"},
			path:     "/ai/tags",
			body:     `{"text":"a gin question"}`,
			wantCode: http.StatusOK,
			wantData: []any{},
		},
		{
			name:     "missing text",
			gen:      stubGenerator{out: "x"},
			path:     "/ai/markdown",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "Missing input text.",
		},
		{
			name:     "upstream failure",
			gen:      stubGenerator{err: errors.New("quota exceeded")},
			path:     "/ai/tags",
			body:     `{"text":"x"}`,
			wantCode: http.StatusBadGateway,
			wantErr:  "AI service request failed",
		},
		{
			name:     "disabled",
			path:     "/ai/markdown",
			body:     `{"text":"x"}`,
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.gen)
			r := gin.New()
			r.POST("/ai/markdown", h.AI.Markdown)
			r.POST("/ai/tags", h.AI.Tags)

			w := do(r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			body := decode(t, w)
			if tt.wantCode == http.StatusOK {
				assert.EqualValues(t, http.StatusOK, body["status"])
				assert.Equal(t, tt.wantData, body["data"])
				return
			}
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
			}
			assert.NotContains(t, w.Body.String(), "quota")
		})
	}
}

func TestCreateQuestion_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(nil)

	r := gin.New()
	r.POST("/question/create", asUser(1), h.Question.Create)

	w := do(r, http.MethodPost, "/question/create", `{"title":"short","content":"too short","tags":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "Title")
	assert.Contains(t, details, "Content")
	assert.Contains(t, details, "Tags")

	w = do(r, http.MethodPost, "/question/create", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(nil)

	r := gin.New()
	r.POST("/question/create", h.Question.Create)
	r.GET("/answer/notifications", h.Answer.Notifications)
	r.GET("/auth/me", h.Auth.Me)

	for _, path := range []string{"/question/create", "/answer/notifications", "/auth/me"} {
		method := http.MethodGet
		if path == "/question/create" {
			method = http.MethodPost
		}
		w := do(r, method, path, `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestBadIdentifiers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(nil)

	r := gin.New()
	r.GET("/answer/get/:questionid", h.Answer.Get)
	r.POST("/question/upvote/:questionid", asUser(1), h.Question.Upvote)
	r.POST("/answer/notification", asUser(1), h.Answer.Notification)
	r.POST("/answer/delete", asUser(1), h.Answer.Delete)
	r.POST("/answer/comment", asUser(1), h.Answer.Comment)
	r.POST("/answer/comments", h.Answer.Comments)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/answer/get/abc", ""},
		{http.MethodGet, "/answer/get/0", ""},
		{http.MethodPost, "/question/upvote/-3", ""},
		{http.MethodPost, "/answer/notification", `{"notificationid":"abc"}`},
		{http.MethodPost, "/answer/delete", `{"questionid":true}`},
		{http.MethodPost, "/answer/comment", `{"answerId":"2","content":""}`},
		{http.MethodPost, "/answer/comments", `{}`},
	}
	for _, tt := range tests {
		w := do(r, tt.method, tt.path, tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.path)
		assert.NotEmpty(t, decode(t, w)["error"], tt.path)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(nil)

	r := gin.New()
	r.GET("/auth/logout", h.Auth.Logout)

	w := do(r, http.MethodGet, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].MaxAge < 0)
}
