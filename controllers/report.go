package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fieldtrack/audit"
	"fieldtrack/database"
)

// exports fetch everything matching the filters in one page
const exportPageSize = 50000

func totalPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// reportFilterLabels drops empty filter values from the report header block
func reportFilterLabels(filters map[string]string) map[string]string {
	labels := map[string]string{}
	for key, value := range filters {
		if value != "" {
			labels[key] = value
		}
	}
	return labels
}

// sendReport renders the supplied records in the requested format and
// streams them as an attachment. The records are exactly what gets
// exported; no further filtering happens here.
func sendReport(c *gin.Context, format, baseName string, records []database.AuditLog, meta audit.ReportMeta) {
	filename := fmt.Sprintf("%s-%s.%s", baseName, time.Now().Format("2006-01-02"), format)

	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := audit.WriteCSV(&buf, records); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	case "pdf":
		if err := audit.WritePDF(&buf, records, meta); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": `Invalid format specified. Use "pdf" or "csv".`,
		})
	}
}
