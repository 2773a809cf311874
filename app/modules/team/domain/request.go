package teamdomain

// TeamRequest is a pending invitation. Two requests are the same request when
// they point at the same team, whoever sent them.
type TeamRequest struct {
	TeamID   TeamID
	SenderID StudentID
}

// Equal compares by team only.
func (r TeamRequest) Equal(other TeamRequest) bool {
	return r.TeamID == other.TeamID
}

func indexOfRequest(reqs []TeamRequest, teamID TeamID) int {
	for i, r := range reqs {
		if r.TeamID == teamID {
			return i
		}
	}
	return -1
}
