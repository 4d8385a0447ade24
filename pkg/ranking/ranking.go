// Package ranking keeps priority numbers dense within a role cohort.
// Whenever one technician's rank or role changes, the whole cohort is
// renumbered 1..k with the unranked sentinel excluded from the sequence.
package ranking

import (
	"sort"
	"strconv"

	"github.com/restoreline/dispatch-api-go/pkg/models"
)

// Entry is one cohort member carrying its stored rank for the dispatch
// mode being edited.
type Entry struct {
	ID   string
	Rank int
}

// ReRank renumbers a role cohort after one member's rank edit. The
// edited member uses requestedRank as its effective rank; everyone else
// keeps their stored rank. Members are sorted ascending by effective
// rank with the edited member winning ties (it is the most recently
// expressed intent), then assigned a running 1..k sequence. Members at
// the unranked sentinel stay at it and take no sequence slot.
//
// The returned map covers every cohort member, not just the edited one;
// callers must persist all of them. An editedID not present in the
// cohort (or empty) makes this a plain densify pass, which is how the
// old cohort is repaired after a role change.
func ReRank(cohort []Entry, editedID string, requestedRank int) map[string]int {
	effective := make([]Entry, len(cohort))
	copy(effective, cohort)
	for i := range effective {
		if effective[i].ID == editedID {
			effective[i].Rank = requestedRank
		}
	}

	sort.SliceStable(effective, func(i, j int) bool {
		if effective[i].Rank != effective[j].Rank {
			return effective[i].Rank < effective[j].Rank
		}
		return effective[i].ID == editedID && effective[j].ID != editedID
	})

	out := make(map[string]int, len(effective))
	next := 1
	for _, e := range effective {
		if e.Rank == models.Unranked {
			out[e.ID] = models.Unranked
			continue
		}
		out[e.ID] = next
		next++
	}
	return out
}

// Label renders a priority number for display: "1st Priority",
// "2nd Priority", "3rd Priority", "<n>th Priority", or "None" for the
// unranked sentinel.
func Label(rank int) string {
	switch rank {
	case models.Unranked:
		return "None"
	case 1:
		return "1st Priority"
	case 2:
		return "2nd Priority"
	case 3:
		return "3rd Priority"
	default:
		return strconv.Itoa(rank) + "th Priority"
	}
}
