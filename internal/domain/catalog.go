package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrUnknownBoss = errors.New("unknown boss")

// cycles is the fixed catalog of tracked bosses and their respawn
// cycle length in hours. Names are the in-game field boss names.
var cycles = map[string]int{
	"Venatus":         4,
	"Viorent":         4,
	"Lady Dalia":      14,
	"Ego":             16,
	"Undomiel":        18,
	"Araneo":          18,
	"Livera":          18,
	"General Aquleus": 22,
	"Amentis":         22,
	"Baron Braudmore": 24,
	"Gareth":          24,
	"Shuliar":         26,
	"Larba":           26,
	"Titore":          28,
	"Wannitas":        36,
	"Metus":           36,
	"Duplican":        36,
}

// byLower maps the lowercased boss name to its canonical form so that
// chat input is matched case-insensitively.
var byLower = func() map[string]string {
	m := make(map[string]string, len(cycles))
	for name := range cycles {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// CycleHours resolves a user-supplied boss name against the catalog.
// It returns the canonical name and the cycle length in hours, or
// ErrUnknownBoss if the name is not in the catalog.
func CycleHours(name string) (string, int, error) {
	canonical, ok := byLower[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", 0, ErrUnknownBoss
	}
	return canonical, cycles[canonical], nil
}

// Names returns the catalog's boss names sorted by cycle length, then
// alphabetically. Used for help text.
func Names() []string {
	names := make([]string, 0, len(cycles))
	for name := range cycles {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if cycles[names[i]] != cycles[names[j]] {
			return cycles[names[i]] < cycles[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
