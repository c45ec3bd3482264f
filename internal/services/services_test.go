package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/logging"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "lowercases and trims", in: []string{" Go ", "SQL"}, want: []string{"go", "sql"}},
		{name: "dedupes after normalizing", in: []string{"go", "Go", " go"}, want: []string{"go"}},
		{name: "five distinct", in: []string{"a", "b", "c", "d", "e"}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "duplicates do not count toward the limit", in: []string{"a", "b", "c", "d", "e", "A"}, want: []string{"a", "b", "c", "d", "e"}},
		{name: "empty list", in: nil, wantErr: true},
		{name: "blank tag", in: []string{"go", "  "}, wantErr: true},
		{name: "too many", in: []string{"a", "b", "c", "d", "e", "f"}, wantErr: true},
		{name: "too long", in: []string{strings.Repeat("x", 51)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTags(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, apperror.From(err).StatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateQuestionText(t *testing.T) {
	validTitle := "How do I join tables?"
	validContent := "I have two tables and need a query."

	tests := []struct {
		name      string
		title     string
		content   string
		badFields []string
	}{
		{name: "valid", title: validTitle, content: validContent},
		{name: "exact bounds", title: strings.Repeat("t", 10), content: strings.Repeat("c", 5000)},
		{name: "counts characters not bytes", title: strings.Repeat("é", 10), content: strings.Repeat("ü", 20)},
		{name: "padded short title", title: strings.TrimSpace("   short    "), content: validContent, badFields: []string{"title"}},
		{name: "padded short content", title: validTitle, content: strings.TrimSpace("          tiny          "), badFields: []string{"content"}},
		{name: "title too long", title: strings.Repeat("t", 101), content: validContent, badFields: []string{"title"}},
		{name: "content too long", title: validTitle, content: strings.Repeat("c", 5001), badFields: []string{"content"}},
		{name: "both empty", badFields: []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionText(tt.title, tt.content)
			if len(tt.badFields) == 0 {
				assert.NoError(t, err)
				return
			}
			appErr := apperror.From(err)
			require.Equal(t, http.StatusBadRequest, appErr.StatusCode())
			details, ok := appErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Len(t, details, len(tt.badFields))
			for _, field := range tt.badFields {
				assert.Contains(t, details, field)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "minimum", username: "bob"},
		{name: "maximum", username: strings.Repeat("u", 50)},
		{name: "multibyte", username: "日本語"},
		{name: "padded two characters", username: strings.TrimSpace("   ab   "), wantErr: true},
		{name: "too long", username: strings.Repeat("u", 51), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUsername(tt.username)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperror.From(err).StatusCode())
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_done\\`, escapeLike(`100% _done\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestVoteHelpers(t *testing.T) {
	assert.Equal(t, "upvotes", counterColumn(models.Upvote))
	assert.Equal(t, "downvotes", counterColumn(models.Downvote))
	assert.Equal(t, "upvoted", verb(models.Upvote))
	assert.Equal(t, "downvoted", verb(models.Downvote))
}

func TestNewQuestionListItem(t *testing.T) {
	q := &models.Question{
		ID:    1,
		Title: "How do I use gorm preload?",
		User:  models.User{ID: 2, Username: "alice", Email: "alice@example.com", Password: "hash"},
	}

	item := newQuestionListItem(q)
	assert.True(t, item.IsUnanswered)
	assert.Zero(t, item.AnswerCount)
	assert.NotNil(t, item.Tags)
	assert.NotNil(t, item.Answers)
	assert.Equal(t, "alice", item.User.Username)

	q.Answers = []models.Answer{{ID: 5, Content: "Use Preload", User: models.User{ID: 3, Username: "bob"}}}
	item = newQuestionListItem(q)
	assert.False(t, item.IsUnanswered)
	assert.Equal(t, 1, item.AnswerCount)
	assert.Equal(t, "bob", item.Answers[0].User.Username)
}

func TestNewAnswerView_EmptyComments(t *testing.T) {
	view := newAnswerView(&models.Answer{ID: 1, User: models.User{ID: 4, Username: "carol"}})
	assert.NotNil(t, view.Comments)
	assert.Empty(t, view.Comments)
	assert.Equal(t, "carol", view.AnsweredBy.Username)
}

func TestWrapTx(t *testing.T) {
	assert.NoError(t, wrapTx(nil, "x"))
	assert.Same(t, errQuestionVoted, wrapTx(errQuestionVoted, "x"))

	err := wrapTx(assert.AnError, "Failed to vote")
	assert.True(t, apperror.Is(err, apperror.InternalError))
	assert.ErrorIs(t, err, assert.AnError)
}

type recordingIndexer struct {
	deadline    time.Time
	hasDeadline bool
	text        string
	err         error
}

func (r *recordingIndexer) IndexQuestion(ctx context.Context, questionID int, text string) error {
	r.deadline, r.hasDeadline = ctx.Deadline()
	r.text = text
	return r.err
}

func TestQuestionServiceIndex(t *testing.T) {
	q := &models.Question{ID: 3, Title: "A title here", Content: "Body text"}

	t.Run("uses configured timeout", func(t *testing.T) {
		idx := &recordingIndexer{}
		s := NewQuestionService(nil, idx, 15*time.Second, logging.New("error", &bytes.Buffer{}))

		start := time.Now()
		s.index(context.Background(), q)

		require.True(t, idx.hasDeadline)
		assert.WithinDuration(t, start.Add(15*time.Second), idx.deadline, time.Second)
		assert.Equal(t, "A title here\n\nBody text", idx.text)
	})

	t.Run("zero timeout adds no deadline and outlives request cancel", func(t *testing.T) {
		idx := &recordingIndexer{}
		s := NewQuestionService(nil, idx, 0, logging.New("error", &bytes.Buffer{}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.index(ctx, q)

		assert.False(t, idx.hasDeadline)
	})

	t.Run("failure is logged not returned", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewQuestionService(nil, &recordingIndexer{err: errors.New("chroma down")}, time.Second, logging.New("warn", &buf))

		s.index(context.Background(), q)
		assert.Contains(t, buf.String(), "failed to index question")
	})
}
