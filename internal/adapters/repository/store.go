// Package repository defines the roster store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/smashden/smashden/internal/domain/model"
)

// Store provides read/write access to the persisted roster.
type Store interface {
	// Load reads the full roster. A store that has never been written
	// yields an empty roster, not an error.
	Load(ctx context.Context) ([]model.PlayerRecord, error)

	// Save replaces the full roster. The write is atomic: readers never
	// observe a partially written roster.
	Save(ctx context.Context, players []model.PlayerRecord) error

	// LastReset returns when the roster was last season-reset. The zero
	// time means no reset has ever been recorded.
	LastReset(ctx context.Context) (time.Time, error)

	// MarkReset records at as the most recent season reset.
	MarkReset(ctx context.Context, at time.Time) error
}
