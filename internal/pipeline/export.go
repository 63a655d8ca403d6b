package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go-survey-stats/internal/model"
	"go-survey-stats/pkg/utils"
)

// ExportResult describes a finished export
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "json"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportManager writes one computed result to a file.
type ExportManager struct {
	Operation model.Operation
	Payload   model.Payload
}

// Export writes result to path, picking the format from the extension.
func (em *ExportManager) Export(result *model.Result, path string) (ExportResult, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create directory: %w", err)
	}

	out := ExportResult{Type: utils.GetFileType(path), Path: path}
	var err error
	switch out.Type {
	case "csv":
		out.RecordCount, err = em.exportToCSV(result, path)
	case "json":
		out.RecordCount, err = em.exportToJSON(result, path)
	default:
		err = fmt.Errorf("unsupported export format for %s", path)
	}
	if err != nil {
		return ExportResult{}, err
	}
	out.ExportedAt = time.Now().UTC()
	return out, nil
}

// exportToCSV flattens the result into group,key,value rows. group is the
// parent key for nested results and empty otherwise; missing values are
// written as empty cells.
func (em *ExportManager) exportToCSV(result *model.Result, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"group", "key", "value"}); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	for _, e := range result.Entries() {
		if e.Nested == nil {
			if err := writer.Write([]string{"", e.Key, formatValue(e.Value)}); err != nil {
				return recordCount, fmt.Errorf("failed to write row: %w", err)
			}
			recordCount++
			continue
		}
		for _, inner := range e.Nested.Entries() {
			if err := writer.Write([]string{e.Key, inner.Key, formatValue(inner.Value)}); err != nil {
				return recordCount, fmt.Errorf("failed to write row: %w", err)
			}
			recordCount++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush csv: %w", err)
	}
	return recordCount, nil
}

// exportToJSON writes the result with export metadata.
func (em *ExportManager) exportToJSON(result *model.Result, path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportInfo map[string]any `json:"export_info"`
		Data       *model.Result  `json:"data"`
	}{
		ExportInfo: map[string]any{
			"operation":    em.Operation,
			"question":     em.Payload.Question,
			"state":        em.Payload.State,
			"record_count": result.Len(),
			"exported_at":  time.Now().UTC(),
		},
		Data: result,
	}

	if err := encoder.Encode(exportData); err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return result.Len(), nil
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
