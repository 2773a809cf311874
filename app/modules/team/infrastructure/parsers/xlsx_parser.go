package parsers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

// ================ XLSX Parser ================

// XLSXParser reads the first sheet: team id in column A, password in B.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) Parse(fileData []byte, fileName string) (map[teamdomain.TeamID]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("XLSX file contains no sheets")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	out := make(map[teamdomain.TeamID]string)
	for i, row := range rows {
		line := i + 1
		if i == 0 && isHeader(row) {
			continue
		}
		if isBlank(row) {
			continue
		}
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			return nil, &LineError{File: fileName, Line: line, Err: errMissingPassword}
		}
		if err := put(out, row[0], strings.TrimSpace(row[1])); err != nil {
			return nil, &LineError{File: fileName, Line: line, Err: err}
		}
	}
	return out, nil
}
