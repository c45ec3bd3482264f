package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/services"
)

// AnswerHandler serves the /answer routes: answers, their votes and comments,
// the caller's notifications and admin moderation.
type AnswerHandler struct {
	responder
	questions     *services.QuestionService
	answers       *services.AnswerService
	notifications *services.NotificationService
	admin         *services.AdminService
}

// Get returns a question together with its answers and their comments.
func (h *AnswerHandler) Get(c *gin.Context) {
	questionID, ok := h.pathID(c, "questionid")
	if !ok {
		return
	}

	detail, err := h.questions.GetWithAnswers(c.Request.Context(), questionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": detail.Question,
		"answers":  detail.Answers,
	})
}

func (h *AnswerHandler) Submit(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	questionID, ok := h.pathID(c, "questionid")
	if !ok {
		return
	}

	var input models.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	answer, err := h.answers.Submit(c.Request.Context(), userID, questionID, input.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Answer submitted successfully.",
		"answer":  answer,
	})
}

func (h *AnswerHandler) Upvote(c *gin.Context) {
	h.vote(c, models.Upvote)
}

func (h *AnswerHandler) Downvote(c *gin.Context) {
	h.vote(c, models.Downvote)
}

func (h *AnswerHandler) vote(c *gin.Context, t models.VoteType) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.AnswerVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	answer, err := h.answers.Vote(c.Request.Context(), userID, input.AnswerID.Int(), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}

func (h *AnswerHandler) Comment(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}
	if input.AnswerID.Int() <= 0 || input.Content == "" {
		h.fail(c, apperror.NewValidation("answerId and content are required", nil))
		return
	}

	comment, err := h.answers.AddComment(c.Request.Context(), userID, input.AnswerID.Int(), input.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "comment": comment})
}

// Comments lists the comments of one answer, newest first.
func (h *AnswerHandler) Comments(c *gin.Context) {
	var input models.ListCommentsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}
	if input.AnswerID.Int() <= 0 {
		h.fail(c, apperror.NewValidation("answerId is required", nil))
		return
	}

	comments, err := h.answers.ListComments(c.Request.Context(), input.AnswerID.Int())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

func (h *AnswerHandler) Notifications(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	feed, err := h.notifications.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Notification marks one of the caller's notifications as read.
func (h *AnswerHandler) Notification(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.MarkNotificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, apperror.NewBadRequest("Invalid notification ID"))
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), userID, input.NotificationID.Int())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": n,
	})
}

// Delete removes a question and everything under it. Admins only.
func (h *AnswerHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.DeleteQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, apperror.NewBadRequest("Invalid question ID"))
		return
	}

	if err := h.admin.DeleteQuestion(c.Request.Context(), userID, input.QuestionID.Int()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully."})
}
