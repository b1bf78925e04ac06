package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/quangtran/folio-api/internal/application/usecase/portfolio"
	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type CustomSectionHandler struct {
	addSectionUseCase    *portfolioUC.AddCustomSectionUseCase
	deleteSectionUseCase *portfolioUC.DeleteCustomSectionUseCase
	addEntryUseCase      *portfolioUC.AddEntryUseCase
	updateEntryUseCase   *portfolioUC.UpdateEntryUseCase
	deleteEntryUseCase   *portfolioUC.DeleteEntryUseCase
	logger               logger.Logger
}

func NewCustomSectionHandler(
	addSectionUC *portfolioUC.AddCustomSectionUseCase,
	deleteSectionUC *portfolioUC.DeleteCustomSectionUseCase,
	addEntryUC *portfolioUC.AddEntryUseCase,
	updateEntryUC *portfolioUC.UpdateEntryUseCase,
	deleteEntryUC *portfolioUC.DeleteEntryUseCase,
	log logger.Logger,
) *CustomSectionHandler {
	return &CustomSectionHandler{
		addSectionUseCase:    addSectionUC,
		deleteSectionUseCase: deleteSectionUC,
		addEntryUseCase:      addEntryUC,
		updateEntryUseCase:   updateEntryUC,
		deleteEntryUseCase:   deleteEntryUC,
		logger:               log,
	}
}

type createCustomSectionRequest struct {
	Name   string                      `json:"name" binding:"required"`
	Fields []portfolio.FieldDefinition `json:"fields"`
}

func (h *CustomSectionHandler) CreateSection(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req createCustomSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for custom section", err))
		return
	}

	input := portfolioUC.AddCustomSectionInput{OwnerID: ownerID, Name: req.Name, Fields: req.Fields}
	output, err := h.addSectionUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusCreated, "application/json", output.Section)
}

func (h *CustomSectionHandler) DeleteSection(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	input := portfolioUC.DeleteCustomSectionInput{OwnerID: ownerID, SectionID: c.Param("sectionId")}
	if err := h.deleteSectionUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Section deleted"})
}

func (h *CustomSectionHandler) CreateEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for entry", err))
		return
	}

	input := portfolioUC.AddEntryInput{OwnerID: ownerID, SectionID: c.Param("sectionId"), Payload: req}
	output, err := h.addEntryUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusCreated, "application/json", output.Entry)
}

func (h *CustomSectionHandler) UpdateEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for entry update", err))
		return
	}

	input := portfolioUC.UpdateEntryInput{
		OwnerID:   ownerID,
		SectionID: c.Param("sectionId"),
		EntryID:   c.Param("entryId"),
		Payload:   req,
	}
	output, err := h.updateEntryUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json", output.Entry)
}

func (h *CustomSectionHandler) DeleteEntry(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	input := portfolioUC.DeleteEntryInput{
		OwnerID:   ownerID,
		SectionID: c.Param("sectionId"),
		EntryID:   c.Param("entryId"),
	}
	if err := h.deleteEntryUseCase.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Entry deleted"})
}
