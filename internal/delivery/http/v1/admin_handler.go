package v1

import (
	"go-job-intake/internal/delivery/http/middleware"
	"go-job-intake/internal/delivery/http/response"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/apperror"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	exportUC domain.ExportUsecase
}

func NewAdminHandler(public *gin.RouterGroup, exportUC domain.ExportUsecase, adminKey string) {
	handler := &AdminHandler{exportUC: exportUC}

	admin := public.Group("/admin")
	admin.Use(middleware.AdminKey(adminKey))
	{
		admin.GET("/applications/export", handler.ExportApplications)
	}
}

// ExportApplications godoc
// @Summary      Export submitted applications
// @Description  Streams an XLSX workbook of submitted applications, newest first
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        X-Admin-Key  header    string  true   "Admin key"
// @Param        since        query     string  false  "Only applications created on or after this date (YYYY-MM-DD)"
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/applications/export [get]
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			c.Error(apperror.BadRequest("since must be a date in YYYY-MM-DD format"))
			return
		}
		since = time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	}

	data, filename, err := h.exportUC.ExportApplications(c.Request.Context(), since)
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, http.StatusOK, filename, xlsxContentType, data)
}
