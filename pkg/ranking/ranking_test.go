package ranking_test

import (
	"testing"

	"github.com/restoreline/dispatch-api-go/pkg/models"
	"github.com/restoreline/dispatch-api-go/pkg/ranking"
	"github.com/stretchr/testify/assert"
)

func TestReRank(t *testing.T) {
	tests := map[string]struct {
		cohort    []ranking.Entry
		editedID  string
		requested int
		expected  map[string]int
	}{
		"EditedTakesTopSlot": {
			// Three leads ranked 1..3; the 3rd asks for rank 1. The
			// other two shift down in their original relative order.
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1}, {ID: "b", Rank: 2}, {ID: "c", Rank: 3},
			},
			editedID:  "c",
			requested: 1,
			expected:  map[string]int{"c": 1, "a": 2, "b": 3},
		},
		"EditedWinsTieOverPriorOccupant": {
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1}, {ID: "b", Rank: 2}, {ID: "c", Rank: 3},
			},
			editedID:  "c",
			requested: 2,
			expected:  map[string]int{"a": 1, "c": 2, "b": 3},
		},
		"SentinelMemberKeepsSentinel": {
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1},
				{ID: "b", Rank: models.Unranked},
				{ID: "c", Rank: 2},
			},
			editedID:  "c",
			requested: 1,
			expected:  map[string]int{"c": 1, "a": 2, "b": models.Unranked},
		},
		"UnrankedMemberJoinsSequence": {
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1},
				{ID: "b", Rank: models.Unranked},
			},
			editedID:  "b",
			requested: 1,
			expected:  map[string]int{"b": 1, "a": 2},
		},
		"EditedDropsToSentinel": {
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1}, {ID: "b", Rank: 2},
			},
			editedID:  "a",
			requested: models.Unranked,
			expected:  map[string]int{"a": models.Unranked, "b": 1},
		},
		"SingleMemberCohort": {
			cohort:    []ranking.Entry{{ID: "only", Rank: 4}},
			editedID:  "only",
			requested: 4,
			expected:  map[string]int{"only": 1},
		},
		"GappyRanksDensify": {
			cohort: []ranking.Entry{
				{ID: "a", Rank: 2}, {ID: "b", Rank: 5}, {ID: "c", Rank: 9},
			},
			editedID:  "b",
			requested: 5,
			expected:  map[string]int{"a": 1, "b": 2, "c": 3},
		},
		"DensifyWithoutEdit": {
			// Old-cohort repair after a role change: no edited member.
			cohort: []ranking.Entry{
				{ID: "a", Rank: 1}, {ID: "b", Rank: 3},
			},
			editedID:  "",
			requested: 0,
			expected:  map[string]int{"a": 1, "b": 2},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := ranking.ReRank(tc.cohort, tc.editedID, tc.requested)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReRank_Density(t *testing.T) {
	cohort := []ranking.Entry{
		{ID: "a", Rank: 7},
		{ID: "b", Rank: models.Unranked},
		{ID: "c", Rank: 2},
		{ID: "d", Rank: 2},
		{ID: "e", Rank: models.Unranked},
	}

	got := ranking.ReRank(cohort, "d", 1)

	seen := make(map[int]bool)
	ranked := 0
	for id, rank := range got {
		if rank == models.Unranked {
			continue
		}
		assert.False(t, seen[rank], "duplicate rank %d for %s", rank, id)
		seen[rank] = true
		ranked++
	}
	for r := 1; r <= ranked; r++ {
		assert.True(t, seen[r], "missing rank %d", r)
	}
	assert.Equal(t, models.Unranked, got["b"])
	assert.Equal(t, models.Unranked, got["e"])
	assert.Equal(t, 1, got["d"])
}

func TestReRank_Idempotent(t *testing.T) {
	cohort := []ranking.Entry{
		{ID: "a", Rank: 1}, {ID: "b", Rank: 2}, {ID: "c", Rank: 3},
	}

	first := ranking.ReRank(cohort, "c", 1)

	applied := make([]ranking.Entry, 0, len(cohort))
	for _, e := range cohort {
		applied = append(applied, ranking.Entry{ID: e.ID, Rank: first[e.ID]})
	}
	second := ranking.ReRank(applied, "c", 1)

	assert.Equal(t, first, second)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "1st Priority", ranking.Label(1))
	assert.Equal(t, "2nd Priority", ranking.Label(2))
	assert.Equal(t, "3rd Priority", ranking.Label(3))
	assert.Equal(t, "4th Priority", ranking.Label(4))
	assert.Equal(t, "6th Priority", ranking.Label(6))
	assert.Equal(t, "None", ranking.Label(models.Unranked))
}
