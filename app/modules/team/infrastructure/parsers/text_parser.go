package parsers

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

// TextParser reads one "<team id> <password>" pair per line. Blank lines
// are skipped; the password runs to the end of the line.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

func (p *TextParser) Parse(fileData []byte, fileName string) (map[teamdomain.TeamID]string, error) {
	out := make(map[teamdomain.TeamID]string)
	scanner := bufio.NewScanner(bytes.NewReader(fileData))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		id, password, ok := strings.Cut(text, " ")
		password = strings.TrimSpace(password)
		if !ok || password == "" {
			return nil, &LineError{File: fileName, Line: line, Err: errMissingPassword}
		}
		if err := put(out, id, password); err != nil {
			return nil, &LineError{File: fileName, Line: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	return out, nil
}

func put(out map[teamdomain.TeamID]string, id, password string) error {
	teamID := teamdomain.TeamID(strings.TrimSpace(id))
	if _, dup := out[teamID]; dup {
		return fmt.Errorf("%w: %s", errDuplicateTeam, teamID)
	}
	out[teamID] = password
	return nil
}
