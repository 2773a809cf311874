package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

const dumpSheet = "Teams"

// WriteDumpXLSX writes one row per team: id, name, confirmed, member ids.
func WriteDumpXLSX(w io.Writer, teams []*teamdomain.Team) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), dumpSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"team", "name", "confirmed", "members"}
	if err := f.SetSheetRow(dumpSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, t := range teams {
		members := make([]string, len(t.Members))
		for j, m := range t.Members {
			members[j] = string(m)
		}
		row := []any{string(t.ID), t.Name, t.Confirmed, strings.Join(members, " ")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dumpSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write team %s: %w", t.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
