package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OutputManager handles result file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	if err := os.MkdirAll(om.BaseOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ResultPath returns the file a job's result is stored in: <dir>/<id>.json
func (om *OutputManager) ResultPath(jobID int64) string {
	return filepath.Join(om.BaseOutputDir, strconv.FormatInt(jobID, 10)+".json")
}

// TempPattern is the os.CreateTemp pattern for a job's in-progress write.
func (om *OutputManager) TempPattern(jobID int64) string {
	return "." + strconv.FormatInt(jobID, 10) + "-*.tmp"
}

// GetFileType determines the file type based on extension
func GetFileType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return "unknown"
	}
}
