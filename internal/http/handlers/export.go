package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phpdave11/gofpdf"

	"opshub/internal/domain/models"
	"opshub/internal/repositories"
)

// ExportHandler produces the downloadable content-inventory report.
type ExportHandler struct {
	Content repositories.ContentRepository
}

// GET /api/admin/exports/content.pdf?status=&category=
func (h ExportHandler) ContentInventoryPDF(c *gin.Context) {
	filters := map[string]string{}
	for _, key := range []string{"status", "category"} {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filters[key] = v
		}
	}

	items, total, err := h.Content.List(repositories.ListParams{
		Page:     1,
		PageSize: 200,
		Filters:  filters,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	pdfBytes, err := buildContentInventoryPDF(items, total)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "could not build PDF")
		return
	}

	filename := "content-inventory_" + time.Now().Format("2006-01-02") + ".pdf"
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func buildContentInventoryPDF(items []models.ContentItem, total int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Content Inventory", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "CONTENT INVENTORY")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s - %d items total", time.Now().Format("2006-01-02 15:04"), total))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Slug", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 7, "Title", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Category", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.CellFormat(60, 6, clip(item.Slug, 38), "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 6, clip(item.Title, 44), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, clip(item.Category, 18), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 6, item.Status, "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
