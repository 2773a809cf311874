package parsers

import (
	"fmt"
	"io"
	"strings"

	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
)

// DiscordMessageLimit is the longest message Discord accepts.
const DiscordMessageLimit = 2000

// DumpLines renders one "<team id> <member id>" line per member, in team
// order.
func DumpLines(teams []*teamdomain.Team) []string {
	var lines []string
	for _, t := range teams {
		for _, m := range t.Members {
			lines = append(lines, fmt.Sprintf("%s %s", t.ID, m))
		}
	}
	return lines
}

// WriteDumpText writes DumpLines to w, newline terminated.
func WriteDumpText(w io.Writer, teams []*teamdomain.Team) error {
	for _, line := range DumpLines(teams) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ChunkLines packs lines into newline-joined chunks shorter than limit
// characters. A single line longer than the limit is split.
func ChunkLines(lines []string, limit int) []string {
	if limit <= 1 {
		limit = DiscordMessageLimit
	}
	room := limit - 1

	var chunks []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
		}
	}

	for _, line := range lines {
		for len(line) > room {
			flush()
			chunks = append(chunks, line[:room])
			line = line[room:]
		}
		need := len(line)
		if b.Len() > 0 {
			need++
		}
		if b.Len()+need > room {
			flush()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	flush()
	return chunks
}
