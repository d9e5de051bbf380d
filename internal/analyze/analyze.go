// Package analyze computes time range, event counts and per-subsystem
// tallies from rendered log lines.
package analyze

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

// ErrNoTimestamps is returned when no rendered line starts with a digit.
var ErrNoTimestamps = errors.New("no valid timestamps found")

// Analyzer scans rendered log lines. The time format configuration is
// fixed at construction; there is no runtime capability probing.
type Analyzer struct {
	timeFormats    []string
	fallbackFormat string
	stats          types.RunStats
}

// New creates an Analyzer. An empty formats list selects the built-in
// format list; fallbackFormat is the fixed-format last resort.
func New(timeFormats []string, fallbackFormat string) *Analyzer {
	if len(timeFormats) == 0 {
		timeFormats = DefaultTimeFormats()
	}
	return &Analyzer{
		timeFormats:    timeFormats,
		fallbackFormat: fallbackFormat,
	}
}

// DefaultTimeFormats returns the formats tried against a leading
// timestamp, most specific first.
func DefaultTimeFormats() []string {
	return []string{
		"2006-01-02 15:04:05.000000-0700",
		"2006-01-02 15:04:05.000000Z0700",
		"2006-01-02 15:04:05.000-0700",
		"2006-01-02 15:04:05.000000",
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
	}
}

// Stats returns what the analyzer has seen so far.
func (a *Analyzer) Stats() types.RunStats {
	return a.stats
}

// TimeRange returns the first and last line whose first byte is an
// ASCII digit. Lines not starting with a digit carry no timestamp in
// syslog-styled output.
func (a *Analyzer) TimeRange(lines []string) (first, last string, err error) {
	for _, line := range lines {
		if !leadsWithDigit(line) {
			continue
		}
		if first == "" {
			first = line
		}
		last = line
	}
	if first == "" {
		return "", "", ErrNoTimestamps
	}
	return first, last, nil
}

// CountEvents returns the number of digit-leading lines.
func (a *Analyzer) CountEvents(lines []string) int {
	a.stats.LinesRendered = int64(len(lines))
	n := 0
	for _, line := range lines {
		if leadsWithDigit(line) {
			n++
		}
	}
	a.stats.EventsCounted = int64(n)
	return n
}

// TallySubsystems counts occurrences of the label between the first
// bracket pair of each line. Lines without a complete pair contribute
// nothing.
func (a *Analyzer) TallySubsystems(lines []string) map[string]int {
	tally := make(map[string]int)
	for _, line := range lines {
		start := strings.IndexByte(line, '[')
		if start < 0 {
			continue
		}
		end := strings.IndexByte(line[start:], ']')
		if end < 0 {
			continue
		}
		sub := line[start+1 : start+end]
		tally[sub]++
	}
	return tally
}

// LeadingTimestamp extracts the timestamp text of a rendered line: the
// first whitespace-delimited token, joined with the second token when
// that token is a time-of-day continuation of a date.
func LeadingTimestamp(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) >= 2 && leadsWithDigit(fields[1]) && strings.Contains(fields[1], ":") {
		return fields[0] + " " + fields[1]
	}
	return fields[0]
}

// ParseTimestamp parses timestamp text using the configured formats,
// then the fixed fallback format after stripping a trailing +offset.
func (a *Analyzer) ParseTimestamp(ts string) (time.Time, error) {
	for _, format := range a.timeFormats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}
	if a.fallbackFormat != "" {
		stripped := ts
		if i := strings.IndexByte(ts, '+'); i >= 0 {
			stripped = ts[:i]
		}
		if t, err := time.Parse(a.fallbackFormat, stripped); err == nil {
			return t, nil
		}
	}
	a.stats.ParseFailures++
	return time.Time{}, fmt.Errorf("failed to parse timestamp: %s", ts)
}

// Span is the time-to-live between the first and last log record.
type Span struct {
	Minutes float64
	Hours   float64
	Days    float64
}

// ComputeSpan computes the span between the leading timestamps of the first
// and last lines. Minutes are rounded to two decimals, hours derive
// from the rounded minutes and days from the rounded hours.
func (a *Analyzer) ComputeSpan(firstLine, lastLine string) (Span, error) {
	start, err := a.ParseTimestamp(LeadingTimestamp(firstLine))
	if err != nil {
		return Span{}, err
	}
	end, err := a.ParseTimestamp(LeadingTimestamp(lastLine))
	if err != nil {
		return Span{}, err
	}

	minutes := round2(end.Sub(start).Minutes())
	hours := round2(minutes / 60)
	days := round2(hours / 24)
	return Span{Minutes: minutes, Hours: hours, Days: days}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func leadsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
