package metrics_test

import (
	"testing"

	"github.com/smashden/smashden/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording hub activity", func() {
			metrics.RecordReportApplied()
			metrics.RecordReportDuplicate()
			metrics.RecordReportRejected("unknown_player")
			metrics.RecordPlayerAdded()
			metrics.ObserveRatingSwing(24.5)
			metrics.RecordSeasonReset()
			metrics.UpdateRosterSize(12)
			metrics.UpdateLiveClients(3)
			metrics.ObserveStoreRead(1.2)
			metrics.ObserveStoreWrite(0.8)
			metrics.RecordHTTPRequest("roster", "GET", "200")
			metrics.RecordHTTPRequestDuration("roster", "GET", "200", 4.2)

			Convey("Then the custom registry gathers them all", func() {
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["smashden_hub_reports_applied_total"], ShouldBeTrue)
				So(names["smashden_hub_reports_duplicate_total"], ShouldBeTrue)
				So(names["smashden_hub_reports_rejected_total"], ShouldBeTrue)
				So(names["smashden_hub_players_added_total"], ShouldBeTrue)
				So(names["smashden_hub_rating_swing_points"], ShouldBeTrue)
				So(names["smashden_hub_season_resets_total"], ShouldBeTrue)
				So(names["smashden_hub_roster_size"], ShouldBeTrue)
				So(names["smashden_hub_live_clients"], ShouldBeTrue)
				So(names["smashden_hub_store_read_latency_milliseconds"], ShouldBeTrue)
				So(names["smashden_hub_store_write_latency_milliseconds"], ShouldBeTrue)
				So(names["smashden_hub_http_requests_total"], ShouldBeTrue)
				So(names["smashden_hub_http_request_duration_milliseconds"], ShouldBeTrue)
			})
		})
	})
}

func TestNewManagerOptions(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("ladder"),
			metrics.WithHistogramBuckets([]float64{1, 5, 10}),
		)

		Convey("Then it registers under the chosen names", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Gauges register eagerly even before the first Set.
			found := false
			for _, f := range families {
				if f.GetName() == "test_ladder_roster_size" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
