package types

// ArchiveRef points at a resolved logarchive on disk.
type ArchiveRef struct {
	// Path is the logarchive directory itself.
	Path string `json:"path"`

	// SizeKB is the on-disk size of the archive in kilobytes.
	SizeKB float64 `json:"size_kb"`

	// TempDir is the extraction directory created for a compressed
	// sysdiagnose input. Empty when the input was already a directory.
	TempDir string `json:"temp_dir,omitempty"`
}

// SubsystemCount is one row of the per-subsystem tally.
type SubsystemCount struct {
	Subsystem string `json:"subsystem"`
	Count     int    `json:"count"`
}

// Report is the aggregate written to the CSV artifact. It is built once
// at the end of a run and never mutated afterwards.
type Report struct {
	Path   string  `json:"path"`
	SizeKB float64 `json:"size_kb"`
	SizeMB float64 `json:"size_mb"`
	SizeGB float64 `json:"size_gb"`

	// FirstLine and LastLine are the raw first and last
	// timestamp-bearing lines of the rendered output.
	FirstLine string `json:"first_line"`
	LastLine  string `json:"last_line"`

	// TTL is the span between the first and last timestamp.
	TTLMinutes float64 `json:"ttl_minutes"`
	TTLHours   float64 `json:"ttl_hours"`
	TTLDays    float64 `json:"ttl_days"`

	TotalEvents      int `json:"total_events"`
	UniqueSubsystems int `json:"unique_subsystems"`

	// Subsystems is sorted by count descending, name ascending on ties.
	Subsystems []SubsystemCount `json:"subsystems"`
}

// RunStats tracks what the analyzer saw during a single run.
type RunStats struct {
	LinesRendered int64 `json:"lines_rendered"`
	EventsCounted int64 `json:"events_counted"`
	ParseFailures int64 `json:"parse_failures"`
}
