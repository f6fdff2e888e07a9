package espn

import (
	"github.com/cmarkle/trade-analyzer/internal/models"
)

// extractOwnerIdentities reduces the owner fields ESPN attaches to a team
// into normalized identities, in priority order: the owners list first, the
// primary owner last. Each rule is total over its input; unknown member ids
// simply yield an identity without a display name.
func extractOwnerIdentities(team teamJSON, memberNames map[string]string) []models.OwnerIdentity {
	identities := make([]models.OwnerIdentity, 0, len(team.Owners)+1)
	seen := make(map[string]bool)

	add := func(swid string) {
		if swid == "" || seen[swid] {
			return
		}
		seen[swid] = true
		identities = append(identities, models.OwnerIdentity{
			SWID:        swid,
			DisplayName: memberNames[swid],
		})
	}

	for _, owner := range team.Owners {
		add(owner)
	}
	add(team.PrimaryOwner)

	return identities
}

// matchUserTeam finds the team owned by the connecting user, comparing the
// user's SWID against every extracted owner identity. Returns -1 when no
// team matches.
func matchUserTeam(teams []teamJSON, memberNames map[string]string, userSWID string) int {
	if userSWID == "" {
		return -1
	}
	user := models.OwnerIdentity{SWID: userSWID}
	for i, team := range teams {
		for _, identity := range extractOwnerIdentities(team, memberNames) {
			if identity.Matches(user) {
				return i
			}
		}
	}
	return -1
}
