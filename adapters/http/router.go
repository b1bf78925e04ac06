package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/logger"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth          *AuthHandler
	Portfolio     *PortfolioHandler
	CustomSection *CustomSectionHandler
	Contact       *ContactHandler
}

// NewRouter wires the REST surface. Section names are fixed at registration
// time, so a URL can never name a column the store does not know.
func NewRouter(h Handlers, authMiddleware gin.HandlerFunc, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ErrorMiddleware(log))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "OK"}) })

		api.POST("/auth/login", h.Auth.Login)

		// Public reads and the contact form need no token.
		api.GET("/portfolio", h.Portfolio.GetPortfolio)
		api.POST("/portfolio/contact", h.Contact.Submit)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.PUT("/auth/change-password", h.Auth.ChangePassword)

			for _, section := range portfolio.SingletonSections {
				private.PUT("/portfolio/"+section, h.Portfolio.UpdateSection(section))
			}

			for _, array := range portfolio.ArraySections {
				private.POST("/portfolio/"+array, h.Portfolio.AddItem(array))
				private.PUT("/portfolio/"+array+"/:id", h.Portfolio.UpdateItem(array))
				private.DELETE("/portfolio/"+array+"/:id", h.Portfolio.DeleteItem(array))
			}

			private.POST("/portfolio/custom-sections", h.CustomSection.CreateSection)
			private.DELETE("/portfolio/custom-sections/:sectionId", h.CustomSection.DeleteSection)
			private.POST("/portfolio/custom-sections/:sectionId/entries", h.CustomSection.CreateEntry)
			private.PUT("/portfolio/custom-sections/:sectionId/entries/:entryId", h.CustomSection.UpdateEntry)
			private.DELETE("/portfolio/custom-sections/:sectionId/entries/:entryId", h.CustomSection.DeleteEntry)

			admin := private.Group("/admin")
			{
				admin.GET("/messages", h.Contact.ListMessages)
				admin.PUT("/messages/:id/read", h.Contact.MarkRead)
			}
		}
	}

	return router
}
