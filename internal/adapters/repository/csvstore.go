package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/smashden/smashden/internal/domain/model"
	"github.com/smashden/smashden/pkg/metrics"
)

// rosterColumns is the exact CSV header, in order. Anything else is a
// malformed roster.
var rosterColumns = []string{"Name", "Character", "Rating", "Confidence"}

// CSVStore persists the roster as a flat CSV file. Saves go through a
// temp file in the same directory followed by a rename, so a crash
// mid-write leaves the previous roster intact.
type CSVStore struct {
	path      string
	resetPath string
	filePerm  os.FileMode
}

// NewCSVStore creates a store for the roster file at path. The season
// reset marker defaults to a sidecar file next to the roster.
func NewCSVStore(path string, opts ...Option) *CSVStore {
	s := &CSVStore{
		path:      path,
		resetPath: path + ".last-reset",
		filePerm:  0o644,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads every player from the roster file. A missing file means the
// hub has never saved a roster and yields an empty slice; any other
// failure, including a bad header or unparseable row, is ErrReadStore.
func (s *CSVStore) Load(_ context.Context) ([]model.PlayerRecord, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveStoreRead(float64(time.Since(start).Milliseconds()))
	}()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.PlayerRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrReadStore, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(rosterColumns)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []model.PlayerRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadStore, err)
	}
	if !slices.Equal(header, rosterColumns) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrReadStore, strings.Join(header, ","))
	}

	var players []model.PlayerRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrReadStore, line, err)
		}
		p, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrReadStore, line, err)
		}
		players = append(players, p)
	}

	return players, nil
}

// Save atomically replaces the roster file with the given players.
func (s *CSVStore) Save(_ context.Context, players []model.PlayerRecord) error {
	start := time.Now()
	defer func() {
		metrics.ObserveStoreWrite(float64(time.Since(start).Milliseconds()))
	}()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".roster-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}
	tmpName := tmp.Name()

	if err := writeRoster(tmp, players); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}

	// CreateTemp opens the file 0600; widen it to the configured mode
	// before it becomes the roster.
	if err := os.Chmod(tmpName, s.filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}

	return nil
}

// LastReset reads the season reset marker. A missing marker yields the
// zero time.
func (s *CSVStore) LastReset(_ context.Context) (time.Time, error) {
	raw, err := os.ReadFile(s.resetPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("%w: %v", ErrReadStore, err)
	}

	at, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reset marker: %v", ErrReadStore, err)
	}
	return at, nil
}

// MarkReset records at as the most recent season reset.
func (s *CSVStore) MarkReset(_ context.Context, at time.Time) error {
	data := []byte(at.UTC().Format(time.RFC3339) + "\n")
	tmpName := s.resetPath + ".tmp"

	if err := os.WriteFile(tmpName, data, s.filePerm); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}
	if err := os.Rename(tmpName, s.resetPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteStore, err)
	}

	return nil
}

func writeRoster(w io.Writer, players []model.PlayerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rosterColumns); err != nil {
		return err
	}
	for _, p := range players {
		row := []string{
			p.Name,
			p.Character,
			formatFloat(p.Rating),
			formatFloat(p.Confidence),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat writes the shortest decimal form that round-trips exactly,
// so load-after-save never drifts a rating.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseRow(row []string) (model.PlayerRecord, error) {
	name := strings.TrimSpace(row[0])
	if name == "" {
		return model.PlayerRecord{}, errors.New("empty player name")
	}

	rating, err := parseFloat(row[2], "rating")
	if err != nil {
		return model.PlayerRecord{}, err
	}
	if rating < 0 {
		return model.PlayerRecord{}, fmt.Errorf("negative rating %q", row[2])
	}

	confidence, err := parseFloat(row[3], "confidence")
	if err != nil {
		return model.PlayerRecord{}, err
	}

	return model.PlayerRecord{
		Name:       name,
		Character:  strings.TrimSpace(row[1]),
		Rating:     rating,
		Confidence: confidence,
	}, nil
}

func parseFloat(raw, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", field, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite %s %q", field, raw)
	}
	return v, nil
}
