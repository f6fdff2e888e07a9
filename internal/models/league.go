package models

import "strings"

// League summarizes a connected fantasy league.
type League struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int    `json:"size"`
	Season      int    `json:"season"`
	ScoringType string `json:"scoring_type"`
	CurrentWeek int    `json:"current_week"`
}

// Team is one franchise in a league with its full roster.
type Team struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Owner         string             `json:"owner"`
	Wins          int                `json:"wins"`
	Losses        int                `json:"losses"`
	PointsFor     float64            `json:"points_for"`
	PointsAgainst float64            `json:"points_against"`
	Roster        []PlayerDescriptor `json:"roster"`

	// Set when the owner could not be matched to the connecting user and the
	// team was picked as a default.
	UncertainOwnership bool `json:"uncertain_ownership,omitempty"`
}

// LeagueConnection is the full payload returned after connecting a league.
type LeagueConnection struct {
	League   League `json:"league"`
	Teams    []Team `json:"teams"`
	UserTeam *Team  `json:"user_team,omitempty"`
}

// OwnerIdentity is the normalized form of "who owns this team". ESPN encodes
// owners under several shapes (SWID strings, {id: ...} objects, lists of
// either); every shape is reduced to this one value before matching.
type OwnerIdentity struct {
	SWID        string `json:"swid"`
	DisplayName string `json:"display_name,omitempty"`
}

// Matches compares two identities by SWID, ignoring ESPN's brace wrapping
// and letter case.
func (o OwnerIdentity) Matches(other OwnerIdentity) bool {
	return o.SWID != "" && normalizeSWID(o.SWID) == normalizeSWID(other.SWID)
}

func normalizeSWID(swid string) string {
	return strings.ToUpper(strings.Trim(swid, "{} "))
}
