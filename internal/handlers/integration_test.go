//go:build integration

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/database"
	"github.com/stackit-dev/stackit/backend/internal/logging"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/services"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stackit"),
		tcpostgres.WithUsername("stackit"),
		tcpostgres.WithPassword("stackit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(gormpostgres.Open(connStr), logging.New("error", &bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestAnswerRoutesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	log := logging.New("error", &bytes.Buffer{})
	users := services.NewUserService(db)
	questions := services.NewQuestionService(db, nil, 0, log)
	answers := services.NewAnswerService(db)

	h := NewHandler(Deps{
		Users:         users,
		Questions:     questions,
		Answers:       answers,
		Notifications: services.NewNotificationService(db),
		Admin:         services.NewAdminService(db),
		Tokens:        auth.NewTokenManager("secret", time.Hour),
		Auth:          config.AuthConfig{},
		Log:           log,
	})

	ctx := context.Background()
	owner, err := users.Signup(ctx, models.SignupRequest{Username: "owner", Email: "owner@example.com", Password: "secret"})
	require.NoError(t, err)
	commenter, err := users.Signup(ctx, models.SignupRequest{Username: "commenter", Email: "commenter@example.com", Password: "secret"})
	require.NoError(t, err)
	q, err := questions.Create(ctx, owner.ID, models.CreateQuestionRequest{
		Title:   "How are comments returned?",
		Content: "Looking for the status code of the comment route.",
		Tags:    []string{"http"},
	})
	require.NoError(t, err)
	ans, err := answers.Submit(ctx, owner.ID, q.ID, "With a plain OK.")
	require.NoError(t, err)

	r := gin.New()
	r.POST("/answer/comment", asUser(commenter.ID), h.Answer.Comment)
	r.POST("/answer/comments", h.Answer.Comments)

	t.Run("comment returns 200 with confirmation", func(t *testing.T) {
		w := do(r, http.MethodPost, "/answer/comment", fmt.Sprintf(`{"answerId":"%d","content":"Nice answer"}`, ans.ID))
		assert.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, "Comment added", body["message"])
		comment, ok := body["comment"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Nice answer", comment["content"])
	})

	t.Run("comments lists the stored comment", func(t *testing.T) {
		w := do(r, http.MethodPost, "/answer/comments", fmt.Sprintf(`{"answerId":%d}`, ans.ID))
		assert.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		comments, ok := body["comments"].([]any)
		require.True(t, ok)
		assert.Len(t, comments, 1)
	})

	t.Run("comment on a missing answer is not found", func(t *testing.T) {
		w := do(r, http.MethodPost, "/answer/comment", `{"answerId":999999,"content":"Hello"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
