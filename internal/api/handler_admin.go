package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pressroom/internal/schema"
)

type MigrationHandler struct {
	migrator *schema.Migrator
}

func NewMigrationHandler(migrator *schema.Migrator) *MigrationHandler {
	return &MigrationHandler{
		migrator: migrator,
	}
}

// RunArticleFieldMigration handles GET /admin/migrate. It applies the
// fixed article-field step list; the batch is idempotent, so re-triggering
// after a partial failure is always safe. Step failures come back in the
// report, not as an HTTP error.
func (h *MigrationHandler) RunArticleFieldMigration(c *gin.Context) {
	report := h.migrator.Apply(c.Request.Context(), schema.ArticleFieldSteps())

	message := "migration completed"
	if report.Failed() {
		message = "migration completed with failures, safe to re-run"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": !report.Failed(),
		"message": message,
		"report":  report.Lines(),
	})
}
