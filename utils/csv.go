package utils

import (
	"bytes"
	"encoding/csv"

	"github.com/gin-gonic/gin"
)

// WriteCSV renders header and rows with proper quoting and sends them as an
// attachment.
func WriteCSV(c *gin.Context, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
	return nil
}
