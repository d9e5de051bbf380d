package analyze

import (
	"errors"
	"testing"
)

func TestTimeRange(t *testing.T) {
	lines := []string{
		"Timestamp (process)[PID]",
		"2024-01-01 00:00:00.000000+0000 host kernel[0] first",
		"some continuation line",
		"2024-01-01 01:30:00.000000+0000 host kernel[0] last",
		"Log archive trailer",
	}

	a := New(nil, "")
	first, last, err := a.TimeRange(lines)
	if err != nil {
		t.Fatalf("TimeRange() error = %v", err)
	}
	if first != lines[1] {
		t.Errorf("Expected first line %q, got %q", lines[1], first)
	}
	if last != lines[3] {
		t.Errorf("Expected last line %q, got %q", lines[3], last)
	}
}

func TestTimeRangeNoTimestamps(t *testing.T) {
	a := New(nil, "")
	_, _, err := a.TimeRange([]string{"header", "", "trailer"})
	if !errors.Is(err, ErrNoTimestamps) {
		t.Errorf("Expected ErrNoTimestamps, got %v", err)
	}
}

func TestCountEvents(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{
			name:  "empty input",
			lines: nil,
			want:  0,
		},
		{
			name: "mixed lines",
			lines: []string{
				"2024-05-01 10:00:00.000000+0000 host proc[1] a",
				"not an event",
				"2024-05-01 10:00:01.000000+0000 host proc[1] b",
				"",
				"9 starts with a digit too",
			},
			want: 3,
		},
		{
			name:  "no digit-leading lines",
			lines: []string{"alpha", "beta"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(nil, "")
			if got := a.CountEvents(tt.lines); got != tt.want {
				t.Errorf("CountEvents() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTallySubsystems(t *testing.T) {
	lines := []string{
		"2024-05-01 10:00:00 host proc[A] message",
		"2024-05-01 10:00:01 host proc[B] message",
		"2024-05-01 10:00:02 host proc[A] message",
		"no brackets here",
		"unclosed [bracket",
	}

	a := New(nil, "")
	tally := a.TallySubsystems(lines)

	if len(tally) != 2 {
		t.Fatalf("Expected 2 subsystems, got %d: %v", len(tally), tally)
	}
	if tally["A"] != 2 {
		t.Errorf("Expected A count 2, got %d", tally["A"])
	}
	if tally["B"] != 1 {
		t.Errorf("Expected B count 1, got %d", tally["B"])
	}
}

func TestLeadingTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "date and time tokens",
			line: "2024-01-01 00:00:00.000 host proc[1] msg",
			want: "2024-01-01 00:00:00.000",
		},
		{
			name: "single timestamp token",
			line: "2024-01-01T00:00:00Z host proc[1] msg",
			want: "2024-01-01T00:00:00Z",
		},
		{
			name: "second token not a time",
			line: "2024-01-01 host proc[1] msg",
			want: "2024-01-01",
		},
		{
			name: "empty line",
			line: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeadingTimestamp(tt.line); got != tt.want {
				t.Errorf("LeadingTimestamp(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "syslog style with offset",
			input: "2024-01-15 10:30:00.123456+0000",
		},
		{
			name:  "millisecond precision",
			input: "2024-01-15 10:30:00.123",
		},
		{
			name:  "no fraction",
			input: "2024-01-15 10:30:00",
		},
		{
			name:  "date only",
			input: "2024-01-15",
		},
		{
			name:    "garbage",
			input:   "not-a-timestamp",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(nil, "2006-01-02 15:04:05.000000")
			_, err := a.ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseTimestampFallback(t *testing.T) {
	// Only the fixed fallback can parse this once the offset is
	// stripped at the '+'.
	a := New([]string{"2006-01-02T15:04:05"}, "2006-01-02 15:04:05.000000")
	ts, err := a.ParseTimestamp("2024-03-01 08:00:00.500000+0100")
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if ts.Hour() != 8 || ts.Minute() != 0 {
		t.Errorf("Unexpected parsed time: %v", ts)
	}
}

func TestComputeSpan(t *testing.T) {
	a := New(nil, "2006-01-02 15:04:05.000000")
	span, err := a.ComputeSpan(
		"2024-01-01 00:00:00.000 host proc[1] first",
		"2024-01-01 01:30:00.000 host proc[1] last",
	)
	if err != nil {
		t.Fatalf("ComputeSpan() error = %v", err)
	}

	if span.Minutes != 90.0 {
		t.Errorf("Expected 90.0 minutes, got %v", span.Minutes)
	}
	if span.Hours != 1.5 {
		t.Errorf("Expected 1.5 hours, got %v", span.Hours)
	}
	if span.Days != 0.06 {
		t.Errorf("Expected 0.06 days, got %v", span.Days)
	}
}

func TestComputeSpanParseFailure(t *testing.T) {
	a := New([]string{"2006-01-02 15:04:05"}, "")
	_, err := a.ComputeSpan("2024-33-99 bogus first", "2024-01-01 01:30:00 last")
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
	if a.Stats().ParseFailures == 0 {
		t.Error("Expected parse failure to be counted")
	}
}
