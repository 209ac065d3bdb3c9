package service_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/smashden/smashden/internal/adapters/repository"
	service "github.com/smashden/smashden/internal/app"
	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a hub over a fresh roster", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "roster.csv")
		store := repository.NewCSVStore(path)
		svc := service.New(
			service.WithStore(store),
			service.WithDedupeSize(500),
			service.WithMaxRosterLimit(100),
		)
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("When a night of matches plays out", func() {
			names := []string{"Abe", "Joey", "Kevin", "Mango"}
			for _, name := range names {
				_, err := svc.AddPlayer(ctx, name, "Fox")
				So(err, ShouldBeNil)
			}

			reports := []model.MatchReport{
				{ReportID: "night-1", Winner: "Abe", Loser: "Joey"},
				{ReportID: "night-2", Winner: "Abe", Loser: "Kevin"},
				{ReportID: "night-3", Winner: "Mango", Loser: "Abe"},
				{ReportID: "night-4", Winner: "Abe", Loser: "Mango"},
				{ReportID: "night-5", Winner: "Joey", Loser: "Kevin"},
			}
			for _, rep := range reports {
				outcome, err := svc.ReportMatch(ctx, rep)
				So(err, ShouldBeNil)
				So(outcome.Duplicate, ShouldBeFalse)
			}

			Convey("Then the roster orders best-first with dense ranks", func() {
				entries, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, len(names))
				for i, entry := range entries {
					So(entry.Rank, ShouldEqual, i+1)
					if i > 0 {
						So(entry.Rating, ShouldBeLessThanOrEqualTo, entries[i-1].Rating)
					}
				}
			})

			Convey("And the busiest player outgrows the idle ones", func() {
				abe, err := svc.Player(ctx, "Abe")
				So(err, ShouldBeNil)
				kevin, err := svc.Player(ctx, "Kevin")
				So(err, ShouldBeNil)

				So(abe.Rating, ShouldBeGreaterThan, kevin.Rating)
				So(abe.Confidence, ShouldBeGreaterThan, kevin.Confidence)
			})

			Convey("And replaying a spent token changes nothing", func() {
				before, err := svc.Player(ctx, "Abe")
				So(err, ShouldBeNil)

				outcome, err := svc.ReportMatch(ctx, reports[0])
				So(err, ShouldBeNil)
				So(outcome.Duplicate, ShouldBeTrue)

				after, err := svc.Player(ctx, "Abe")
				So(err, ShouldBeNil)
				So(after.Rating, ShouldAlmostEqual, before.Rating, 1e-12)
			})

			Convey("And the stats reflect the night", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["players"], ShouldEqual, len(names))
				So(stats["trackedReports"], ShouldEqual, int64(len(reports)))
			})

			Convey("And a new hub over the same file picks up the standings", func() {
				first, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				svc.Stop()

				revived := service.New(service.WithStore(repository.NewCSVStore(path)))
				So(revived.Start(ctx), ShouldBeNil)
				defer revived.Stop()

				second, err := revived.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(second, ShouldHaveLength, len(first))
				for i := range first {
					So(second[i].Name, ShouldEqual, first[i].Name)
					So(second[i].Rating, ShouldAlmostEqual, first[i].Rating, 1e-12)
				}
			})
		})

		Convey("When the hub is stopped and started again", func() {
			_, err := svc.AddPlayer(ctx, "Abe", "Fox")
			So(err, ShouldBeNil)
			_, err = svc.AddPlayer(ctx, "Joey", "Samus")
			So(err, ShouldBeNil)

			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)

			Convey("Then play continues where it left off", func() {
				outcome, err := svc.ReportMatch(ctx, model.MatchReport{Winner: "Abe", Loser: "Joey"})
				So(err, ShouldBeNil)
				So(outcome.Winner.Name, ShouldEqual, "Abe")
				So(outcome.Winner.Rating, ShouldBeGreaterThan, 1500)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started hub with a full cast", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "roster.csv")
		svc := service.New(
			service.WithStore(repository.NewCSVStore(path)),
			service.WithDedupeSize(2000),
		)
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		names := []string{"Abe", "Joey", "Kevin", "Mango", "Zain", "Pip"}
		for _, name := range names {
			_, err := svc.AddPlayer(ctx, name, "Fox")
			So(err, ShouldBeNil)
		}

		Convey("When many goroutines report matches with unique tokens", func() {
			const goroutines = 8
			const perGoroutine = 10

			var wg sync.WaitGroup
			errs := make(chan error, goroutines*perGoroutine)
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < perGoroutine; i++ {
						_, err := svc.ReportMatch(ctx, model.MatchReport{
							ReportID: fmt.Sprintf("tok-%d-%d", g, i),
							Winner:   names[(g+i)%len(names)],
							Loser:    names[(g+i+1)%len(names)],
						})
						if err != nil {
							errs <- err
						}
					}
				}(g)
			}
			wg.Wait()
			close(errs)

			Convey("Then every report lands and the ladder stays consistent", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}

				entries, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, len(names))
				for i := 1; i < len(entries); i++ {
					So(entries[i].Rating, ShouldBeLessThanOrEqualTo, entries[i-1].Rating)
				}
			})
		})

		Convey("When one token is raced by many goroutines", func() {
			const racers = 12

			var wg sync.WaitGroup
			applied := make(chan bool, racers)
			for i := 0; i < racers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					outcome, err := svc.ReportMatch(ctx, model.MatchReport{
						ReportID: "contested-token",
						Winner:   "Abe",
						Loser:    "Joey",
					})
					if err == nil {
						applied <- !outcome.Duplicate
					}
				}()
			}
			wg.Wait()
			close(applied)

			Convey("Then the match is applied exactly once", func() {
				wins, total := 0, 0
				for wasApplied := range applied {
					total++
					if wasApplied {
						wins++
					}
				}
				So(total, ShouldEqual, racers)
				So(wins, ShouldEqual, 1)

				abe, err := svc.Player(ctx, "Abe")
				So(err, ShouldBeNil)
				joey, err := svc.Player(ctx, "Joey")
				So(err, ShouldBeNil)
				So(abe.Rating, ShouldBeGreaterThan, 1500)
				So(joey.Rating, ShouldBeLessThan, 1500)
			})
		})

		Convey("When readers and writers overlap", func() {
			var wg sync.WaitGroup
			readErrs := make(chan error, 80)

			for r := 0; r < 4; r++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						if _, err := svc.Roster(ctx, 3); err != nil {
							readErrs <- err
							continue
						}
						if _, err := svc.Player(ctx, names[j%len(names)]); err != nil {
							readErrs <- err
						}
					}
				}()
			}
			for w := 0; w < 2; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						_, _ = svc.ReportMatch(ctx, model.MatchReport{
							ReportID: fmt.Sprintf("mixed-%d-%d", w, j),
							Winner:   names[j%len(names)],
							Loser:    names[(j+1)%len(names)],
						})
					}
				}(w)
			}
			wg.Wait()
			close(readErrs)

			Convey("Then no query ever fails", func() {
				for err := range readErrs {
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a started hub with two players", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "roster.csv")
		svc := service.New(service.WithStore(repository.NewCSVStore(path)))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		_, err := svc.AddPlayer(ctx, "Abe", "Fox")
		So(err, ShouldBeNil)
		_, err = svc.AddPlayer(ctx, "Joey", "Samus")
		So(err, ShouldBeNil)

		Convey("When a burst mixes valid and invalid reports", func() {
			landed, bounced := 0, 0
			burst := []model.MatchReport{
				{ReportID: "burst-1", Winner: "Abe", Loser: "Joey"},
				{ReportID: "burst-2", Winner: "Abe", Loser: " abe "},
				{ReportID: "burst-3", Winner: "Ghost", Loser: "Joey"},
				{ReportID: "burst-4", Winner: "Joey", Loser: "Abe"},
				{ReportID: "burst-5", Winner: "", Loser: "Joey"},
			}
			for _, rep := range burst {
				if _, err := svc.ReportMatch(ctx, rep); err != nil {
					bounced++
				} else {
					landed++
				}
			}

			Convey("Then the valid ones land and the rest bounce", func() {
				So(landed, ShouldEqual, 2)
				So(bounced, ShouldEqual, 3)

				entries, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
			})

			Convey("And a failed token remains usable", func() {
				outcome, err := svc.ReportMatch(ctx, model.MatchReport{
					ReportID: "burst-3",
					Winner:   "Abe",
					Loser:    "Joey",
				})
				So(err, ShouldBeNil)
				So(outcome.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When the roster file disappears between requests", func() {
			So(os.Remove(path), ShouldBeNil)

			Convey("Then reads see an empty roster rather than an error", func() {
				entries, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})

			Convey("And the next sign-up recreates the file", func() {
				_, err := svc.AddPlayer(ctx, "Kevin", "Ness")
				So(err, ShouldBeNil)

				entries, err := svc.Roster(ctx, 0)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Name, ShouldEqual, "Kevin")
			})
		})
	})
}
