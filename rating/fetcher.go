package rating

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ezBadminton/ccsim/config"
	"golang.org/x/time/rate"
)

const dateLayout = "2006-01-02"

// A Fetcher downloads the rating feed of a day and keeps it in a
// cache directory. Only the file of the most recent download is kept.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	baseURL  string
	cacheDir string
}

func NewFetcher(cfg config.RatingsConfig) *Fetcher {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	baseURL := cfg.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:  baseURL,
		cacheDir: cfg.CacheDir,
	}
}

// Returns the rating table of the given day. A cached file is used
// when present, otherwise the stale files are removed and the feed
// is downloaded.
func (f *Fetcher) Fetch(ctx context.Context, date time.Time) (*Table, error) {
	day := date.Format(dateLayout)
	path := f.cachePath(day)

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.removeStale()
		if err := f.download(ctx, day, path); err != nil {
			return nil, err
		}
		file, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open rating cache: %w", err)
	}
	defer file.Close()

	return ParseCSV(file)
}

func (f *Fetcher) cachePath(day string) string {
	return filepath.Join(f.cacheDir, day+".csv")
}

func (f *Fetcher) removeStale() {
	stale, err := filepath.Glob(filepath.Join(f.cacheDir, "*.csv"))
	if err != nil {
		slog.Warn("could not list rating cache", "dir", f.cacheDir, "error", err)
		return
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			slog.Warn("could not delete stale ratings", "file", path, "error", err)
		}
	}
	if len(stale) > 0 {
		slog.Info("deleted stale ratings", "files", len(stale))
	}
}

func (f *Fetcher) download(ctx context.Context, day, path string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	url := f.baseURL + day
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download ratings from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download ratings from %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create rating cache: %w", err)
	}

	// Write to a temporary file so a broken download never
	// looks like a valid cache
	tmp, err := os.CreateTemp(f.cacheDir, day+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create rating cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to download ratings from %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store ratings: %w", err)
	}

	slog.Info("downloaded ratings", "date", day)
	return nil
}
