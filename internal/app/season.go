package service

import (
	"context"
	"time"

	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/pkg/logger"
	"github.com/smashden/smashden/pkg/metrics"
)

// Season reset modes.
const (
	SeasonOff     = "off"
	SeasonMonthly = "monthly"
)

// monthKey buckets a time into its calendar month, UTC.
func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// maybeSeasonReset rolls every rating back to the starting values once a
// new calendar month begins. The first check on a fresh hub only plants
// the marker. Callers must hold s.mu.
func (s *Service) maybeSeasonReset(ctx context.Context, players []model.PlayerRecord) ([]model.PlayerRecord, error) {
	if s.season != SeasonMonthly {
		return players, nil
	}

	now := s.clock()
	last, err := s.store.LastReset(ctx)
	if err != nil {
		return nil, err
	}

	if last.IsZero() {
		if err := s.store.MarkReset(ctx, now); err != nil {
			return nil, err
		}
		return players, nil
	}

	if monthKey(last) == monthKey(now) {
		return players, nil
	}

	for i := range players {
		fresh := s.engine.NewRecord(players[i].Name, players[i].Character)
		players[i].Rating = fresh.Rating
		players[i].Confidence = fresh.Confidence
	}
	if err := s.store.Save(ctx, players); err != nil {
		return nil, err
	}
	if err := s.store.MarkReset(ctx, now); err != nil {
		return nil, err
	}

	metrics.RecordSeasonReset()
	s.logger.Info(ctx, "season reset applied",
		logger.Int("players", len(players)),
		logger.String("month", monthKey(now)),
	)

	return players, nil
}
