package seeder

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

// namePool is the roster of den regulars the seeder signs up. Characters
// roughly match who people actually play.
var namePool = []struct{ name, character string }{
	{"Abe", "Falco"},
	{"Joey", "Samus"},
	{"Day Man", "Marth"},
	{"Wrenna", "Peach"},
	{"Tox", "Fox"},
	{"Pidge", "Jigglypuff"},
	{"Null", "Sheik"},
	{"Karl", "Donkey Kong"},
	{"Moss", "Luigi"},
	{"Vee", "Captain Falcon"},
	{"Sunny", "Ice Climbers"},
	{"Drifter", "Yoshi"},
	{"Hex", "Ganondorf"},
	{"Pip", "Pikachu"},
	{"Otto", "Mr. Game & Watch"},
	{"Rook", "Link"},
}

// buildPlayers returns n players drawn from the name pool, each with a
// hidden skill. Past the pool size, names get a numeric suffix so every
// generated player stays unique.
func buildPlayers(rng *rand.Rand, n int) []player {
	players := make([]player, 0, n)
	for i := 0; i < n; i++ {
		entry := namePool[i%len(namePool)]
		name := entry.name
		if i >= len(namePool) {
			name += " " + strconv.Itoa(i/len(namePool)+1)
		}
		players = append(players, player{
			Name:      name,
			Character: entry.character,
			Skill:     minSkill + rng.Float64()*skillRange,
		})
	}
	return players
}

// generateReports produces n match reports between distinct players. The
// winner is picked with probability proportional to hidden skill, so the
// final ladder should roughly reproduce the skill order.
func generateReports(rng *rand.Rand, players []player, n int) []report {
	if len(players) < 2 {
		return nil
	}

	reports := make([]report, 0, n)
	for i := 0; i < n; i++ {
		ai := rng.Intn(len(players))
		bi := rng.Intn(len(players) - 1)
		if bi >= ai {
			bi++
		}

		a, b := players[ai], players[bi]
		winner, loser := a, b
		if rng.Float64() >= a.Skill/(a.Skill+b.Skill) {
			winner, loser = b, a
		}

		reports = append(reports, report{
			ReportID: uuid.NewString(),
			Winner:   winner.Name,
			Loser:    loser.Name,
		})
	}
	return reports
}
