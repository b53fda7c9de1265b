package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FormatFromPath returns "csv" or "json" based on the file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
}

func ContentTypeForFormat(format string) string {
	switch format {
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// GenerateFilename generates a unique filename for a batch output file
func GenerateFilename(prefix, format string) string {
	timestamp := time.Now().Unix()
	if format == "" {
		format = "json"
	}
	return fmt.Sprintf("enhanced_%s_%d.%s", prefix, timestamp, format)
}

func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filepath.Base(filename), ext)
	timestamp := time.Now().Unix()
	id := uuid.New().String()[:8]

	return fmt.Sprintf("batches/%s_%d_%s%s", name, timestamp, id, ext)
}
