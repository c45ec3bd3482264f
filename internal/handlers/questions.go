package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stackit-dev/stackit/backend/internal/apperror"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/services"
)

type QuestionHandler struct {
	responder
	questions *services.QuestionService
}

// Create posts a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	question, err := h.questions.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Question created successfully",
		"question": question,
	})
}

// Get returns every question with its answers and the list totals.
func (h *QuestionHandler) Get(c *gin.Context) {
	list, err := h.questions.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *QuestionHandler) Filter(c *gin.Context) {
	questions, err := h.questions.Filter(c.Request.Context(), c.Param("filter"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "questions": questions})
}

func (h *QuestionHandler) Search(c *gin.Context) {
	var input models.SearchRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindFailed(c, err)
		return
	}

	questions, err := h.questions.Search(c.Request.Context(), input.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) Upvote(c *gin.Context) {
	h.vote(c, models.Upvote)
}

func (h *QuestionHandler) Downvote(c *gin.Context) {
	h.vote(c, models.Downvote)
}

func (h *QuestionHandler) vote(c *gin.Context, t models.VoteType) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	questionID, ok := h.pathID(c, "questionid")
	if !ok {
		return
	}

	question, err := h.questions.Vote(c.Request.Context(), userID, questionID, t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "question": question})
}

// pathID parses a positive integer path parameter or writes a 400.
func (r responder) pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		r.fail(c, apperror.NewBadRequest("Invalid "+name))
		return 0, false
	}
	return id, true
}
