package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportJSON writes l as indented JSON to path, or to stdout when path is "-".
func ExportJSON(path string, l *Layout) error {
	if path == "-" {
		return EncodeJSON(os.Stdout, l)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, l)
}

func EncodeJSON(w io.Writer, l *Layout) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(l)
}
