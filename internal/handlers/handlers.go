package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/stackit-dev/stackit/backend/internal/ai"
	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/logging"
	"github.com/stackit-dev/stackit/backend/internal/middleware"
	"github.com/stackit-dev/stackit/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	AI       *AIHandler
}

// Deps carries everything the handlers need from the rest of the application.
type Deps struct {
	Users         *services.UserService
	Questions     *services.QuestionService
	Answers       *services.AnswerService
	Notifications *services.NotificationService
	Admin         *services.AdminService
	Assistant     *ai.Assistant
	Tokens        *auth.TokenManager
	Auth          config.AuthConfig
	Log           logrus.FieldLogger
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(d Deps) *Handler {
	r := responder{log: d.Log}
	return &Handler{
		Auth: &AuthHandler{
			responder:    r,
			users:        d.Users,
			tokens:       d.Tokens,
			cookieSecure: d.Auth.CookieSecure,
		},
		Question: &QuestionHandler{responder: r, questions: d.Questions},
		Answer: &AnswerHandler{
			responder:     r,
			questions:     d.Questions,
			answers:       d.Answers,
			notifications: d.Notifications,
			admin:         d.Admin,
		},
		AI: &AIHandler{responder: r, assistant: d.Assistant},
	}
}

type responder struct {
	log logrus.FieldLogger
}

// fail writes err as the JSON error envelope. Server-side causes are logged, never returned.
func (r responder) fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError && r.log != nil {
		logging.FromContext(c, r.log).WithError(err).Error(appErr.Message)
	}
	c.JSON(status, appErr.ToResponse())
}

// bindFailed reports a request body that could not be decoded or validated.
func (r responder) bindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		r.fail(c, apperror.NewValidation("Validation failed", details))
		return
	}
	r.fail(c, apperror.NewBadRequest("Invalid request body"))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "length must be at least " + fe.Param()
	case "max":
		return "length must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// currentUser returns the authenticated user id or writes a 401.
func (r responder) currentUser(c *gin.Context) (int, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		r.fail(c, apperror.NewAuth("Unauthorized"))
		return 0, false
	}
	return id, true
}
