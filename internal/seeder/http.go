package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smashden/smashden/pkg/logger"
)

// HTTPClient wraps http.Client with the run timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// drainAndClose discards the rest of the body so the connection can be
// reused, then closes it.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// ensurePlayers signs up every generated player, tolerating names that
// already exist from a previous run.
func ensurePlayers(ctx context.Context, config *Config, client *HTTPClient, players []player, stats *Stats) error {
	url := config.BaseURL + "/api/players"

	for _, p := range players {
		resp, err := client.Post(ctx, url, signup{Name: p.Name, Character: p.Character})
		if err != nil {
			return fmt.Errorf("sign up %s: %w", p.Name, err)
		}
		drainAndClose(resp)

		switch resp.StatusCode {
		case http.StatusCreated:
			stats.PlayersCreated++
		case http.StatusConflict:
			stats.PlayersExisting++
		default:
			return fmt.Errorf("sign up %s: unexpected status %d", p.Name, resp.StatusCode)
		}
	}

	logger.Get().Info(ctx, "roster populated",
		logger.Int("created", stats.PlayersCreated),
		logger.Int("existing", stats.PlayersExisting))
	return nil
}

// submitReports pushes the generated reports through a worker pool.
func submitReports(ctx context.Context, config *Config, client *HTTPClient, reports []report, stats *Stats) error {
	log.Printf("📤 Submitting %d match reports with %d workers...", len(reports), config.Workers)

	url := config.BaseURL + "/api/reports"

	var (
		applied   int64
		duplicate int64
		failed    int64
		submitted int64
	)

	reportChan := make(chan report, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for rep := range reportChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleReport(ctx, client, url, rep)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "applied":
						atomic.AddInt64(&applied, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}

					if config.Verbose && result != "applied" {
						log.Printf("📊 report %s between %s and %s: %s", rep.ReportID, rep.Winner, rep.Loser, result)
					}
				}
			}
		}()
	}

	go func() {
		defer close(reportChan)
		for _, rep := range reports {
			select {
			case <-ctx.Done():
				return
			case reportChan <- rep:
			}
		}
	}()

	wg.Wait()

	stats.MatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MatchesApplied = int(atomic.LoadInt64(&applied))
	stats.MatchesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Report submission completed:
   Applied: %d
   Duplicate: %d
   Failed: %d
`, stats.MatchesApplied, stats.MatchesDuplicate, stats.MatchesFailed)

	return nil
}

// submitSingleReport submits a single report and returns the result.
func submitSingleReport(ctx context.Context, client *HTTPClient, url string, rep report) string {
	resp, err := client.Post(ctx, url, rep)
	if err != nil {
		return "failed"
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "failed"
	}

	if resp.StatusCode != http.StatusOK {
		return "failed"
	}

	var out outcome
	if err := json.Unmarshal(body, &out); err == nil && out.Duplicate {
		return "duplicate"
	}
	return "applied"
}

// fetchRoster retrieves the ranked roster.
func fetchRoster(ctx context.Context, config *Config, client *HTTPClient) ([]rosterEntry, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/api/roster")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster request failed with status: %d", resp.StatusCode)
	}

	var entries []rosterEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	return entries, nil
}
