package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Formats lists the supported output encodings.
var Formats = []string{"yaml", "json"}

// CheckFormat reports whether format names a supported encoding.
func CheckFormat(format string) error {
	switch format {
	case "json", "yaml", "yml":
		return nil
	}
	return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
}

// Write encodes spec to w as yaml or json.
func Write(w io.Writer, spec *OpenAPISpec, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(spec); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	}
	return nil
}

// WriteFile writes spec to outputPath, creating parent directories.
func WriteFile(spec *OpenAPISpec, outputPath, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return Write(file, spec, format)
}
