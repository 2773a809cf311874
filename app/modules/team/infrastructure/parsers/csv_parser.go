package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

// CSVParser reads "team,password" rows. A leading header row naming the
// columns is skipped.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(fileData []byte, fileName string) (map[teamdomain.TeamID]string, error) {
	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	out := make(map[teamdomain.TeamID]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(out) == 0 && isHeader(record) {
			continue
		}
		if isBlank(record) {
			continue
		}
		if len(record) < 2 || strings.TrimSpace(record[1]) == "" {
			return nil, &LineError{File: fileName, Line: line, Err: errMissingPassword}
		}
		if err := put(out, record[0], strings.TrimSpace(record[1])); err != nil {
			return nil, &LineError{File: fileName, Line: line, Err: err}
		}
	}
	return out, nil
}

// isHeader recognizes a "team,password" style header row.
func isHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	second := strings.ToLower(strings.TrimSpace(row[1]))
	return (first == "team" || first == "team_id" || first == "id") && second == "password"
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
