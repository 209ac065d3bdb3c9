package seeder

import (
	"fmt"
	"log"
	"strings"
)

// verifyRanking checks that the returned roster is a proper ladder and
// measures how well final ratings track the hidden skills that drove the
// simulation.
func verifyRanking(players []player, roster []rosterEntry, verbose bool) error {
	log.Println("🔍 Verifying ladder...")

	if len(roster) == 0 {
		return fmt.Errorf("empty roster")
	}

	for i, entry := range roster {
		if entry.Rank != i+1 {
			return fmt.Errorf("rank mismatch at position %d: got %d", i, entry.Rank)
		}
	}

	for i := 1; i < len(roster); i++ {
		if roster[i].Rating > roster[i-1].Rating {
			return fmt.Errorf("roster not sorted: position %d outrates position %d", i, i-1)
		}
	}

	concordance := skillConcordance(players, roster)
	log.Printf("📈 Skill/rating concordance: %.0f%%", concordance*percentageMultiplier)
	if concordance < concordanceWarnBelow {
		log.Println("⚠️  Ratings track hidden skill poorly; more matches usually fix this")
	} else {
		log.Println("✅ Ratings track the hidden skills")
	}

	displayTop(roster, verbose)

	log.Println("✅ Ladder verification completed")
	return nil
}

// skillConcordance returns the fraction of seeded player pairs whose rating
// order matches their hidden skill order. Roster entries the seeder did not
// create are ignored.
func skillConcordance(players []player, roster []rosterEntry) float64 {
	skills := make(map[string]float64, len(players))
	for _, p := range players {
		skills[strings.ToLower(p.Name)] = p.Skill
	}

	// The roster arrives rating-descending, so earlier entries outrank
	// later ones.
	seeded := make([]float64, 0, len(players))
	for _, entry := range roster {
		if skill, ok := skills[strings.ToLower(entry.Name)]; ok {
			seeded = append(seeded, skill)
		}
	}

	var concordant, total float64
	for i := 0; i < len(seeded); i++ {
		for j := i + 1; j < len(seeded); j++ {
			if seeded[i] == seeded[j] {
				continue
			}
			total++
			if seeded[i] > seeded[j] {
				concordant++
			}
		}
	}
	if total == 0 {
		return 1
	}
	return concordant / total
}

// displayTop shows the podium from the returned roster.
func displayTop(roster []rosterEntry, verbose bool) {
	topN := podiumSize
	if len(roster) < topN {
		topN = len(roster)
	}

	log.Printf("🏆 Top %d:", topN)
	for i := 0; i < topN; i++ {
		entry := roster[i]
		log.Printf("   %d. %s (%s), rating %.0f, confidence %.0f%%",
			entry.Rank, entry.Name, entry.Character, entry.Rating, entry.Confidence*percentageMultiplier)
	}

	if verbose && len(roster) > 0 {
		avg := 0.0
		for _, entry := range roster {
			avg += entry.Rating
		}
		avg /= float64(len(roster))

		log.Printf(`📊 Rating statistics:
   Average: %.1f
   Maximum: %.1f
   Minimum: %.1f
`, avg, roster[0].Rating, roster[len(roster)-1].Rating)
	}
}
