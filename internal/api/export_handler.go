package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/domain"
	"alcyxob/gym-admin/internal/service"
)

// ExportHandler serves the member spreadsheet and its archived copies.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportMembers godoc
// @Summary Download the member spreadsheet
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "socios.xlsx"
// @Router /members/export [get]
func (h *ExportHandler) ExportMembers(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.exportService.WriteMembers(c.Request.Context(), &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFileName+`"`)
	c.Header("X-Member-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, service.ExportContentType, buf.Bytes())
}

// Archive stores the spreadsheet in object storage and returns a download link.
func (h *ExportHandler) Archive(c *gin.Context) {
	operatorID, _ := operatorIDFromContext(c)
	archive, err := h.exportService.Archive(c.Request.Context(), operatorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, archive)
}

func (h *ExportHandler) ListArchives(c *gin.Context) {
	archives, err := h.exportService.ListArchives(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if archives == nil {
		archives = []domain.ExportArchive{}
	}
	c.JSON(http.StatusOK, archives)
}

// GetArchive returns the archive with a fresh download link.
func (h *ExportHandler) GetArchive(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	archive, err := h.exportService.ArchiveURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, archive)
}

func (h *ExportHandler) DeleteArchive(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exportService.DeleteArchive(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
