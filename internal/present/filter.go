package present

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/ffdash/internal/models"
)

const teamMatchThreshold = 0.6

// TeamOptions lists team names in first-appearance order.
func TeamOptions(rows []models.TeamWeekRecord) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range rows {
		if !seen[r.Team] {
			seen[r.Team] = true
			out = append(out, r.Team)
		}
	}
	return out
}

// PositionOptions lists positions in first-appearance order.
func PositionOptions(rows []models.PlayerWeekRecord) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range rows {
		if !seen[r.Position] {
			seen[r.Position] = true
			out = append(out, r.Position)
		}
	}
	return out
}

// FilterTeams keeps rows whose team is selected and whose week lies in
// [StartWeek, EndWeek].
func FilterTeams(rows []models.TeamWeekRecord, sel models.Selection) []models.TeamWeekRecord {
	selected := make(map[string]bool, len(sel.Teams))
	for _, t := range sel.Teams {
		selected[t] = true
	}

	out := make([]models.TeamWeekRecord, 0)
	for _, r := range rows {
		if selected[r.Team] && r.Week >= sel.StartWeek && r.Week <= sel.EndWeek {
			out = append(out, r)
		}
	}
	return out
}

// ResolveTeams maps user supplied names onto known team names. An exact
// (case-insensitive) match wins; otherwise the closest name by Levenshtein
// similarity is used if it clears the threshold. Names that resolve to nothing
// are returned in unmatched.
func ResolveTeams(requested, known []string) (resolved, unmatched []string) {
	seen := make(map[string]bool)
	resolved = make([]string, 0, len(requested))
	for _, raw := range requested {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		match, ok := matchTeam(name, known)
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		if !seen[match] {
			seen[match] = true
			resolved = append(resolved, match)
		}
	}
	return resolved, unmatched
}

func matchTeam(name string, known []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, k := range known {
		if strings.ToLower(k) == lower {
			return k, true
		}
	}

	best := ""
	bestScore := teamMatchThreshold
	for _, k := range known {
		candidate := strings.ToLower(k)
		distance := fuzzy.LevenshteinDistance(lower, candidate)
		maxLen := float64(max(len(lower), len(candidate)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			bestScore = similarity
			best = k
		}
	}
	return best, best != ""
}
