package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Ankan-42/AUL-logarchive-info/pkg/types"
)

// Read parses a CSV written by Write back into a Report. Used to
// validate the artifact before off-box delivery.
func Read(path string) (*types.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	r := &types.Report{}
	inTally := false
	for i, row := range rows {
		if len(row) != 2 {
			continue
		}
		if i == 0 && row[0] == "Field" {
			continue
		}
		if row[0] == "Subsystem" && row[1] == "Event Count" {
			inTally = true
			continue
		}

		if inTally {
			count, err := strconv.Atoi(row[1])
			if err != nil {
				return nil, fmt.Errorf("bad subsystem count for %q: %w", row[0], err)
			}
			r.Subsystems = append(r.Subsystems, types.SubsystemCount{
				Subsystem: row[0],
				Count:     count,
			})
			continue
		}

		if err := setScalar(r, row[0], row[1]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func setScalar(r *types.Report, field, value string) error {
	var err error
	switch field {
	case fieldPath:
		r.Path = value
	case fieldSizeKB:
		r.SizeKB, err = strconv.ParseFloat(value, 64)
	case fieldSizeMB:
		r.SizeMB, err = strconv.ParseFloat(value, 64)
	case fieldSizeGB:
		r.SizeGB, err = strconv.ParseFloat(value, 64)
	case fieldFirstLine:
		r.FirstLine = value
	case fieldLastLine:
		r.LastLine = value
	case fieldTTLMin:
		r.TTLMinutes, err = strconv.ParseFloat(value, 64)
	case fieldTTLHours:
		r.TTLHours, err = strconv.ParseFloat(value, 64)
	case fieldTTLDays:
		r.TTLDays, err = strconv.ParseFloat(value, 64)
	case fieldTotalEvents:
		r.TotalEvents, err = strconv.Atoi(value)
	case fieldUniqueSubsystems:
		r.UniqueSubsystems, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown report field: %s", field)
	}
	if err != nil {
		return fmt.Errorf("bad value for %s: %w", field, err)
	}
	return nil
}
