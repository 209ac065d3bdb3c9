package seeder

import (
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildPlayers(t *testing.T) {
	Convey("Given a deterministic source", t, func() {
		rng := rand.New(rand.NewSource(1))

		Convey("When building a handful of players", func() {
			players := buildPlayers(rng, 5)

			Convey("Then they come from the name pool with hidden skills", func() {
				So(len(players), ShouldEqual, 5)
				So(players[0].Name, ShouldEqual, "Abe")
				So(players[0].Character, ShouldEqual, "Falco")
				So(players[2].Name, ShouldEqual, "Day Man")
				for _, p := range players {
					So(p.Skill, ShouldBeGreaterThanOrEqualTo, minSkill)
					So(p.Skill, ShouldBeLessThanOrEqualTo, minSkill+skillRange)
				}
			})
		})

		Convey("When building more players than the pool holds", func() {
			players := buildPlayers(rng, len(namePool)+3)

			Convey("Then overflow names get a numeric suffix and stay unique", func() {
				So(len(players), ShouldEqual, len(namePool)+3)
				So(players[len(namePool)].Name, ShouldEqual, "Abe 2")

				seen := make(map[string]bool)
				for _, p := range players {
					So(seen[p.Name], ShouldBeFalse)
					seen[p.Name] = true
				}
			})
		})
	})
}

func TestGenerateReports(t *testing.T) {
	Convey("Given a seeded cast", t, func() {
		rng := rand.New(rand.NewSource(7))
		players := buildPlayers(rng, 4)

		Convey("When generating reports", func() {
			reports := generateReports(rng, players, 50)

			Convey("Then every report is a distinct pairing with a unique token", func() {
				So(len(reports), ShouldEqual, 50)

				names := make(map[string]bool, len(players))
				for _, p := range players {
					names[p.Name] = true
				}

				tokens := make(map[string]bool)
				for _, rep := range reports {
					So(rep.Winner, ShouldNotEqual, rep.Loser)
					So(names[rep.Winner], ShouldBeTrue)
					So(names[rep.Loser], ShouldBeTrue)
					So(tokens[rep.ReportID], ShouldBeFalse)
					tokens[rep.ReportID] = true
				}
			})
		})

		Convey("When there are not enough players for a match", func() {
			reports := generateReports(rng, players[:1], 10)

			Convey("Then no reports are generated", func() {
				So(reports, ShouldBeEmpty)
			})
		})
	})
}

func TestSkillConcordance(t *testing.T) {
	Convey("Given seeded players with known skills", t, func() {
		players := []player{
			{Name: "Abe", Skill: 0.9},
			{Name: "Joey", Skill: 0.6},
			{Name: "Pip", Skill: 0.3},
		}

		Convey("When the ladder matches the skill order", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Abe", Rating: 1700},
				{Rank: 2, Name: "Joey", Rating: 1500},
				{Rank: 3, Name: "Pip", Rating: 1300},
			}

			Convey("Then concordance is perfect", func() {
				So(skillConcordance(players, roster), ShouldEqual, 1)
			})
		})

		Convey("When the ladder inverts the skill order", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Pip", Rating: 1700},
				{Rank: 2, Name: "Joey", Rating: 1500},
				{Rank: 3, Name: "Abe", Rating: 1300},
			}

			Convey("Then concordance is zero", func() {
				So(skillConcordance(players, roster), ShouldEqual, 0)
			})
		})

		Convey("When the roster carries players the seeder never created", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Abe", Rating: 1700},
				{Rank: 2, Name: "Longtime Regular", Rating: 1650},
				{Rank: 3, Name: "Joey", Rating: 1500},
			}

			Convey("Then strangers are ignored", func() {
				So(skillConcordance(players, roster), ShouldEqual, 1)
			})
		})

		Convey("When fewer than two seeded players are on the roster", func() {
			roster := []rosterEntry{{Rank: 1, Name: "Abe", Rating: 1700}}

			Convey("Then concordance defaults to perfect", func() {
				So(skillConcordance(players, roster), ShouldEqual, 1)
			})
		})
	})
}

func TestVerifyRanking(t *testing.T) {
	Convey("Given a returned roster", t, func() {
		players := []player{
			{Name: "Abe", Skill: 0.9},
			{Name: "Joey", Skill: 0.3},
		}

		Convey("When the ladder is well formed", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Abe", Rating: 1600},
				{Rank: 2, Name: "Joey", Rating: 1400},
			}

			Convey("Then verification passes", func() {
				So(verifyRanking(players, roster, false), ShouldBeNil)
			})
		})

		Convey("When the roster is empty", func() {
			Convey("Then verification fails", func() {
				So(verifyRanking(players, nil, false), ShouldNotBeNil)
			})
		})

		Convey("When ranks are not consecutive", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Abe", Rating: 1600},
				{Rank: 3, Name: "Joey", Rating: 1400},
			}

			Convey("Then verification fails", func() {
				err := verifyRanking(players, roster, false)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "rank mismatch")
			})
		})

		Convey("When ratings are not descending", func() {
			roster := []rosterEntry{
				{Rank: 1, Name: "Joey", Rating: 1400},
				{Rank: 2, Name: "Abe", Rating: 1600},
			}

			Convey("Then verification fails", func() {
				err := verifyRanking(players, roster, false)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "not sorted")
			})
		})
	})
}
