package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

const (
	FilterNewest     = "newest"
	FilterOldest     = "oldest"
	FilterUnanswered = "unanswered"

	maxTags      = 5
	maxTagLength = 50

	minTitleLength   = 10
	maxTitleLength   = 100
	minContentLength = 20
	maxContentLength = 5000
)

// Indexer stores question text in an external search index.
type Indexer interface {
	IndexQuestion(ctx context.Context, questionID int, text string) error
}

type QuestionService struct {
	db           *gorm.DB
	indexer      Indexer
	indexTimeout time.Duration
	log          logrus.FieldLogger
}

// NewQuestionService builds the service. indexer may be nil. indexTimeout
// bounds each indexing call; zero leaves it to the indexer.
func NewQuestionService(db *gorm.DB, indexer Indexer, indexTimeout time.Duration, log logrus.FieldLogger) *QuestionService {
	return &QuestionService{db: db, indexer: indexer, indexTimeout: indexTimeout, log: log}
}

// Create stores the question and links its tags, creating tags that do not exist yet.
func (s *QuestionService) Create(ctx context.Context, userID int, req models.CreateQuestionRequest) (*QuestionView, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if err := validateQuestionText(title, content); err != nil {
		return nil, err
	}

	names, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	owner, err := findUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	question := models.Question{
		Title:   title,
		Content: content,
		UserID:  owner.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, names)
		if err != nil {
			return err
		}
		question.Tags = tags
		return tx.Omit("Tags.*").Create(&question).Error
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to create question")
	}

	question.User = *owner
	s.index(ctx, &question)

	view := newQuestionView(&question)
	return &view, nil
}

// upsertTags resolves each name to its single Tag row.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&models.Tag{Name: name}).Error
		if err != nil {
			return nil, err
		}

		var tag models.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// validateQuestionText checks lengths in characters after trimming.
func validateQuestionText(title, content string) error {
	details := map[string]string{}
	if n := utf8.RuneCountInString(title); n < minTitleLength || n > maxTitleLength {
		details["title"] = fmt.Sprintf("Title must be between %d and %d characters", minTitleLength, maxTitleLength)
	}
	if n := utf8.RuneCountInString(content); n < minContentLength || n > maxContentLength {
		details["content"] = fmt.Sprintf("Content must be between %d and %d characters", minContentLength, maxContentLength)
	}
	if len(details) > 0 {
		return apperror.NewValidation("Validation failed", details)
	}
	return nil
}

// NormalizeTags trims, lower-cases and de-duplicates tag names.
func NormalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		name := strings.ToLower(strings.TrimSpace(r))
		if name == "" {
			return nil, apperror.NewValidation("Validation failed", map[string]string{"tags": "Tag cannot be empty"})
		}
		if len(name) > maxTagLength {
			return nil, apperror.NewValidation("Validation failed", map[string]string{"tags": fmt.Sprintf("Tag cannot exceed %d characters", maxTagLength)})
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	switch {
	case len(names) == 0:
		return nil, apperror.NewValidation("Validation failed", map[string]string{"tags": "At least one tag is required"})
	case len(names) > maxTags:
		return nil, apperror.NewValidation("Validation failed", map[string]string{"tags": fmt.Sprintf("You can add at most %d tags", maxTags)})
	}
	return names, nil
}

func (s *QuestionService) index(ctx context.Context, q *models.Question) {
	if s.indexer == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if s.indexTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.indexTimeout)
		defer cancel()
	}

	if err := s.indexer.IndexQuestion(ctx, q.ID, q.Title+"\n\n"+q.Content); err != nil {
		s.log.WithError(err).WithField("question_id", q.ID).Warn("failed to index question")
	}
}

func (s *QuestionService) listQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Answers.User")
}

// List returns every question newest first with answer totals.
func (s *QuestionService) List(ctx context.Context) (*QuestionList, error) {
	var questions []models.Question
	if err := s.listQuery(ctx).Order("created_at DESC, id DESC").Find(&questions).Error; err != nil {
		return nil, apperror.NewInternal("Failed to fetch questions", err)
	}

	list := &QuestionList{Questions: make([]QuestionListItem, 0, len(questions))}
	for i := range questions {
		item := newQuestionListItem(&questions[i])
		if item.IsUnanswered {
			list.TotalUnanswered++
		}
		list.Questions = append(list.Questions, item)
	}
	list.TotalQuestions = len(list.Questions)
	return list, nil
}

// Filter lists questions by one of the named filters.
func (s *QuestionService) Filter(ctx context.Context, filter string) ([]QuestionListItem, error) {
	query := s.listQuery(ctx)

	switch filter {
	case FilterNewest:
		query = query.Order("created_at DESC, id DESC")
	case FilterOldest:
		query = query.Order("created_at ASC, id ASC")
	case FilterUnanswered:
		query = query.
			Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)").
			Order("created_at DESC, id DESC")
	default:
		return nil, apperror.NewBadRequest(`Invalid filter. Use "newest", "oldest", or "unanswered".`)
	}

	var questions []models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, apperror.NewInternal("Failed to fetch questions", err)
	}
	return toListItems(questions), nil
}

// Search matches the query case-insensitively against title and content.
func (s *QuestionService) Search(ctx context.Context, query string) ([]QuestionListItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.NewValidation("Search query is required", nil)
	}

	pattern := "%" + escapeLike(query) + "%"
	var questions []models.Question
	err := s.listQuery(ctx).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&questions).Error
	if err != nil {
		return nil, apperror.NewInternal("Failed to search questions", err)
	}
	return toListItems(questions), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toListItems(questions []models.Question) []QuestionListItem {
	items := make([]QuestionListItem, 0, len(questions))
	for i := range questions {
		items = append(items, newQuestionListItem(&questions[i]))
	}
	return items
}

// GetWithAnswers loads the question tree: answers newest first, comments oldest first.
func (s *QuestionService) GetWithAnswers(ctx context.Context, questionID int) (*QuestionDetail, error) {
	if questionID <= 0 {
		return nil, errQuestionNotFound
	}

	var q models.Question
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Answers.User").
		Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Answers.Comments.User").
		First(&q, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errQuestionNotFound
		}
		return nil, apperror.NewInternal("Failed to fetch question", err)
	}

	detail := &QuestionDetail{
		Question: newQuestionView(&q),
		Answers:  make([]AnswerView, 0, len(q.Answers)),
	}
	for i := range q.Answers {
		detail.Answers = append(detail.Answers, newAnswerView(&q.Answers[i]))
	}
	return detail, nil
}

var errQuestionVoted = apperror.NewBadRequest("You have already voted on this question.")

// Vote records one vote per user per question and notifies the owner.
func (s *QuestionService) Vote(ctx context.Context, actorID, questionID int, t models.VoteType) (*QuestionView, error) {
	question, err := findQuestion(ctx, s.db, questionID)
	if err != nil {
		return nil, err
	}
	voter, err := findUser(ctx, s.db, actorID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.QuestionVote{}).
			Where("user_id = ? AND question_id = ?", voter.ID, question.ID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return errQuestionVoted
		}

		vote := &models.QuestionVote{UserID: voter.ID, QuestionID: question.ID, Type: t}
		if err := recordVote(tx, vote, &models.Question{}, question.ID, t, errQuestionVoted); err != nil {
			return err
		}

		msg := fmt.Sprintf(`%s %s your question "%s"`, voter.Username, verb(t), question.Title)
		return notify(tx, voter.ID, question.UserID, &question.ID, msg)
	})
	if err != nil {
		return nil, wrapTx(err, "Failed to vote")
	}

	var updated models.Question
	if err := s.db.WithContext(ctx).Preload("User").Preload("Tags").First(&updated, question.ID).Error; err != nil {
		return nil, apperror.NewInternal("Failed to load question", err)
	}
	view := newQuestionView(&updated)
	return &view, nil
}
