// Package ingest reads cricsheet-style ball-by-ball match CSVs and
// prepares them for the rating fold: one file per match, globally
// sorted, duplicates rejected.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/dedupe"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
)

const dateLayout = "2006-01-02"

// Columns the reader needs. Files may carry more; order is taken from
// the header row, not assumed.
var requiredColumns = []string{
	"match_id", "season", "start_date", "venue", "innings", "ball",
	"striker", "bowler", "runs_off_bat", "extras",
}

// wides, noballs, wicket_type and player_dismissed are optional and
// default to empty/zero when a file omits them.

// Reader loads delivery streams from a directory of match files.
type Reader struct {
	logger logger.Logger
}

// NewReader creates a reader with configuration options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{logger: logger.Get().Named("ingest")}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadDir reads every match file under dir (skipping *_info.csv
// scorecard companions), sorts the combined stream chronologically and
// rejects duplicate deliveries. The returned slice is safe to fold.
func (r *Reader) LoadDir(ctx context.Context, dir string) ([]model.Delivery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	var deliveries []model.Delivery
	var files int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, "_info.csv") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingest interrupted: %w", err)
		}
		path := filepath.Join(dir, name)
		match, err := r.ReadMatchFile(path)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, match...)
		files++
	}
	if files == 0 {
		return nil, fmt.Errorf("dir %s: %w", dir, ErrNoMatchFiles)
	}

	r.logger.Info(ctx, "loaded match files",
		logger.Int("files", files),
		logger.Int("deliveries", len(deliveries)),
	)
	return Prepare(ctx, deliveries)
}

// ReadMatchFile parses a single ball-by-ball match CSV.
func (r *Reader) ReadMatchFile(path string) ([]model.Delivery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: column %q: %w", path, name, ErrMissingColumn)
		}
	}

	var out []model.Delivery
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		d, err := parseRow(cols, record)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Prepare sorts deliveries into the global chronological order and
// fails on duplicate delivery keys. Out-of-order input is corrected by
// the explicit sort; duplicates cannot be corrected and abort the run,
// since folding a ball twice would corrupt every downstream rating.
func Prepare(ctx context.Context, deliveries []model.Delivery) ([]model.Delivery, error) {
	sort.SliceStable(deliveries, func(i, j int) bool {
		return deliveries[i].Before(deliveries[j])
	})

	seen := dedupe.NewInMemoryDeduper(dedupe.WithInitialCapacity(len(deliveries)))
	for _, d := range deliveries {
		if seen.SeenAndRecord(ctx, d.Key()) {
			return nil, fmt.Errorf("delivery %s: %w", d.Key(), ErrDuplicateDelivery)
		}
	}
	return deliveries, nil
}

func parseRow(cols map[string]int, record []string) (model.Delivery, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var d model.Delivery
	d.MatchID = field("match_id")
	d.Season = field("season")
	d.Venue = field("venue")
	d.Striker = field("striker")
	d.Bowler = field("bowler")
	d.WicketType = field("wicket_type")
	d.PlayerDismissed = field("player_dismissed")

	if d.MatchID == "" {
		return d, fmt.Errorf("%w: empty match_id", ErrMalformedRow)
	}

	date, err := time.Parse(dateLayout, field("start_date"))
	if err != nil {
		return d, fmt.Errorf("%w: start_date %q", ErrMalformedRow, field("start_date"))
	}
	d.Date = date

	innings, err := strconv.Atoi(field("innings"))
	if err != nil {
		return d, fmt.Errorf("%w: innings %q", ErrMalformedRow, field("innings"))
	}
	d.Innings = innings

	over, ball, err := parseBall(field("ball"))
	if err != nil {
		return d, err
	}
	d.Over, d.Ball = over, ball

	for name, dst := range map[string]*int{
		"runs_off_bat": &d.RunsOffBat,
		"extras":       &d.Extras,
		"wides":        &d.Wides,
		"noballs":      &d.NoBalls,
	} {
		raw := field(name)
		if raw == "" {
			continue
		}
		// Some exports carry these as floats ("1.0").
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return d, fmt.Errorf("%w: %s %q", ErrMalformedRow, name, raw)
		}
		*dst = int(v)
	}
	return d, nil
}

// parseBall splits the "over.ball" notation, e.g. "12.4" is the fourth
// ball of the thirteenth over.
func parseBall(raw string) (over, ball int, err error) {
	whole, frac, ok := strings.Cut(raw, ".")
	if !ok {
		return 0, 0, fmt.Errorf("%w: ball %q", ErrMalformedRow, raw)
	}
	over, err = strconv.Atoi(whole)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ball %q", ErrMalformedRow, raw)
	}
	ball, err = strconv.Atoi(frac)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ball %q", ErrMalformedRow, raw)
	}
	return over, ball, nil
}
