package teamhandlers

import (
	"fmt"
	"slices"
	"strings"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
)

func teamView(t *teamdomain.Team) teamevents.TeamViewV1 {
	return teamevents.TeamViewV1{
		ID:          string(t.ID),
		Name:        t.Name,
		Members:     nonNil(slices.Clone(t.Members)),
		Confirmed:   t.Confirmed,
		HasPassword: t.Password != nil,
	}
}

func rejectionViews(rs []teamservice.InviteRejection) []teamevents.RejectionViewV1 {
	if len(rs) == 0 {
		return nil
	}
	out := make([]teamevents.RejectionViewV1, len(rs))
	for i, r := range rs {
		out[i] = teamevents.RejectionViewV1{StudentID: r.StudentID, Code: reasonCode(r.Reason)}
	}
	return out
}

func mention(id sharedtypes.DiscordID) string {
	return "<@" + string(id) + ">"
}

func mentions(ids []sharedtypes.DiscordID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = mention(id)
	}
	return strings.Join(parts, ", ")
}

// teamLabel names a team by id, adding the display name when it differs.
func teamLabel(t *teamdomain.Team) string {
	if t.Name == "" || t.Name == string(t.ID) {
		return string(t.ID)
	}
	return fmt.Sprintf("%s (%s)", t.ID, t.Name)
}

// inviteSummary renders the invited and rejected parts of a create or
// invite reply.
func inviteSummary(invited []sharedtypes.DiscordID, rejected []teamservice.InviteRejection) string {
	var b strings.Builder
	if len(invited) > 0 {
		fmt.Fprintf(&b, " Invited %s.", mentions(invited))
	}
	for _, r := range rejected {
		_, msg, ok := describe(r.Reason)
		if !ok {
			msg = r.Reason.Error()
		}
		fmt.Fprintf(&b, " Could not invite %s: %s", mention(r.StudentID), msg)
	}
	return b.String()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
