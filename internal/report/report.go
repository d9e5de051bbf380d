// Package report builds the Report record and writes the CSV artifact.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Ankan-42/AUL-logarchive-info/internal/analyze"
	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

// Field labels of the scalar section. The layout matches the reports
// operators already consume, so changes here break downstream tooling.
const (
	fieldPath             = "Logarchive Path"
	fieldSizeKB           = "Size (KB)"
	fieldSizeMB           = "Size (MB)"
	fieldSizeGB           = "Size (GB)"
	fieldFirstLine        = "First Log Line"
	fieldLastLine         = "Last Log Line"
	fieldTTLMin           = "TTL (min)"
	fieldTTLHours         = "TTL (hours)"
	fieldTTLDays          = "TTL (days)"
	fieldTotalEvents      = "Total Events"
	fieldUniqueSubsystems = "Unique Subsystems"
)

// Build assembles an immutable Report from the run results. The tally
// is sorted by count descending, subsystem name ascending on ties.
func Build(ref *types.ArchiveRef, first, last string, span analyze.Span, totalEvents int, tally map[string]int) *types.Report {
	sizeMB := round2(ref.SizeKB / 1024)
	sizeGB := round2(sizeMB / 1024)

	subsystems := make([]types.SubsystemCount, 0, len(tally))
	for sub, count := range tally {
		subsystems = append(subsystems, types.SubsystemCount{Subsystem: sub, Count: count})
	}
	sort.Slice(subsystems, func(i, j int) bool {
		if subsystems[i].Count != subsystems[j].Count {
			return subsystems[i].Count > subsystems[j].Count
		}
		return subsystems[i].Subsystem < subsystems[j].Subsystem
	})

	return &types.Report{
		Path:             ref.Path,
		SizeKB:           ref.SizeKB,
		SizeMB:           sizeMB,
		SizeGB:           sizeGB,
		FirstLine:        first,
		LastLine:         last,
		TTLMinutes:       span.Minutes,
		TTLHours:         span.Hours,
		TTLDays:          span.Days,
		TotalEvents:      totalEvents,
		UniqueSubsystems: len(subsystems),
		Subsystems:       subsystems,
	}
}

// Filename returns the timestamped artifact name, log_report_<YYYYMMDD_HHMMSS>.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("log_report_%s.csv", now.Format("20060102_150405"))
}

// Write writes the report as CSV: a Field/Value table of the scalar
// fields, a blank row, then the Subsystem/Event Count table.
func Write(r *types.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"Field", "Value"},
		{fieldPath, r.Path},
		{fieldSizeKB, formatFloat(r.SizeKB)},
		{fieldSizeMB, formatFloat(r.SizeMB)},
		{fieldSizeGB, formatFloat(r.SizeGB)},
		{fieldFirstLine, r.FirstLine},
		{fieldLastLine, r.LastLine},
		{fieldTTLMin, formatFloat(r.TTLMinutes)},
		{fieldTTLHours, formatFloat(r.TTLHours)},
		{fieldTTLDays, formatFloat(r.TTLDays)},
		{fieldTotalEvents, strconv.Itoa(r.TotalEvents)},
		{fieldUniqueSubsystems, strconv.Itoa(r.UniqueSubsystems)},
		{},
		{"Subsystem", "Event Count"},
	}
	for _, sub := range r.Subsystems {
		rows = append(rows, []string{sub.Subsystem, strconv.Itoa(sub.Count)})
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WritePath joins the configured report directory with the timestamped
// filename.
func WritePath(dir string, now time.Time) string {
	return filepath.Join(dir, Filename(now))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
