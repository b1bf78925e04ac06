package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/quangtran/folio-api/internal/application/usecase/portfolio"
	"github.com/quangtran/folio-api/pkg/apperror"
	"github.com/quangtran/folio-api/pkg/logger"
)

type PortfolioHandler struct {
	getPortfolioUseCase  *portfolioUC.GetPortfolioUseCase
	updateSectionUseCase *portfolioUC.UpdateSectionUseCase
	addItemUseCase       *portfolioUC.AddItemUseCase
	updateItemUseCase    *portfolioUC.UpdateItemUseCase
	deleteItemUseCase    *portfolioUC.DeleteItemUseCase
	logger               logger.Logger
}

func NewPortfolioHandler(
	getUC *portfolioUC.GetPortfolioUseCase,
	updateSectionUC *portfolioUC.UpdateSectionUseCase,
	addItemUC *portfolioUC.AddItemUseCase,
	updateItemUC *portfolioUC.UpdateItemUseCase,
	deleteItemUC *portfolioUC.DeleteItemUseCase,
	log logger.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{
		getPortfolioUseCase:  getUC,
		updateSectionUseCase: updateSectionUC,
		addItemUseCase:       addItemUC,
		updateItemUseCase:    updateItemUC,
		deleteItemUseCase:    deleteItemUC,
		logger:               log,
	}
}

// GetPortfolio is the one unauthenticated read: the whole document, empty
// shape included if nothing is stored yet.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	output, err := h.getPortfolioUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output.Document)
}

// UpdateSection returns the handler replacing one singleton section. The
// section name is fixed at route registration, never read from the path.
func (h *PortfolioHandler) UpdateSection(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
			return
		}

		var req map[string]any
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid JSON body for section update", err))
			return
		}

		input := portfolioUC.UpdateSectionInput{OwnerID: ownerID, Section: section, Value: req}
		output, err := h.updateSectionUseCase.Execute(c.Request.Context(), input)
		if err != nil {
			c.Error(err)
			return
		}
		c.Data(http.StatusOK, "application/json", output.Value)
	}
}

func (h *PortfolioHandler) AddItem(array string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
			return
		}

		var req map[string]any
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid JSON body for item", err))
			return
		}

		input := portfolioUC.AddItemInput{OwnerID: ownerID, Array: array, Payload: req}
		output, err := h.addItemUseCase.Execute(c.Request.Context(), input)
		if err != nil {
			c.Error(err)
			return
		}
		c.Data(http.StatusCreated, "application/json", output.Item)
	}
}

func (h *PortfolioHandler) UpdateItem(array string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
			return
		}

		var req map[string]any
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.NewInvalidInput("invalid JSON body for item update", err))
			return
		}

		input := portfolioUC.UpdateItemInput{
			OwnerID: ownerID,
			Array:   array,
			ID:      c.Param("id"),
			Payload: req,
		}
		output, err := h.updateItemUseCase.Execute(c.Request.Context(), input)
		if err != nil {
			c.Error(err)
			return
		}
		c.Data(http.StatusOK, "application/json", output.Item)
	}
}

func (h *PortfolioHandler) DeleteItem(array string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
			return
		}

		input := portfolioUC.DeleteItemInput{OwnerID: ownerID, Array: array, ID: c.Param("id")}
		if err := h.deleteItemUseCase.Execute(c.Request.Context(), input); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted"})
	}
}
