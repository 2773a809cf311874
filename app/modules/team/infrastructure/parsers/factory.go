package parsers

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Factory creates the appropriate parser based on file extension.
type Factory struct{}

// NewFactory creates a new parser factory.
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns a parser for the given file name. Files without an
// extension are read as plain text.
func (f *Factory) GetParser(fileName string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case "", ".txt":
		return NewTextParser(), nil
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s (must be .txt, .csv or .xlsx)", ErrUnsupportedFileType, fileName)
	}
}
