package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactUC "github.com/quangtran/folio-api/internal/application/usecase/contact"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type ContactHandler struct {
	submitUseCase       *contactUC.SubmitUseCase
	listMessagesUseCase *contactUC.ListMessagesUseCase
	markReadUseCase     *contactUC.MarkReadUseCase
	logger              logger.Logger
}

func NewContactHandler(
	submitUC *contactUC.SubmitUseCase,
	listUC *contactUC.ListMessagesUseCase,
	markReadUC *contactUC.MarkReadUseCase,
	log logger.Logger,
) *ContactHandler {
	return &ContactHandler{
		submitUseCase:       submitUC,
		listMessagesUseCase: listUC,
		markReadUseCase:     markReadUC,
		logger:              log,
	}
}

type submitContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Submit is public: visitors post through the contact form without a token.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req submitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid contact form submission", err))
		return
	}

	input := contactUC.SubmitInput{Name: req.Name, Email: req.Email, Message: req.Message}
	output, err := h.submitUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message_id": output.MessageID})
}

func (h *ContactHandler) ListMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	onlyUnread := c.Query("unread") == "true"

	input := contactUC.ListMessagesInput{OnlyUnread: onlyUnread, Page: page, Limit: limit}
	output, err := h.listMessagesUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Messages)
}

func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid message ID", err))
		return
	}

	if err := h.markReadUseCase.Execute(c.Request.Context(), contactUC.MarkReadInput{MessageID: id}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
