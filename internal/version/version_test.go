package version

import (
	"strings"
	"testing"
)

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{
			name:     "epoch date",
			date:     "2025-12-04",
			expected: 0,
		},
		{
			name:     "next day after epoch",
			date:     "2025-12-05",
			expected: 1,
		},
		{
			name:     "one year later",
			date:     "2026-12-04",
			expected: 365,
		},
		{
			name:     "date with leap years included",
			date:     "2032-12-04",
			expected: 2557,
		},
		{
			name:      "invalid format",
			date:      "invalid",
			wantError: true,
		},
		{
			name:      "empty date",
			date:      "",
			wantError: true,
		},
		{
			name:      "before epoch",
			date:      "2025-12-03",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildIDFor(tt.date)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("buildIDFor(%q) = %d, want %d", tt.date, got, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	oldDate, oldCommit := BuildDate, BuildCommit
	defer func() { BuildDate, BuildCommit = oldDate, oldCommit }()

	BuildDate, BuildCommit = "", ""
	if got := String(); !strings.Contains(got, "build unknown") {
		t.Errorf("String() without date = %q", got)
	}

	BuildDate, BuildCommit = "2025-12-05", "abc123"
	got := String()
	if !strings.Contains(got, "build 1 (2025-12-05)") || !strings.Contains(got, "commit[abc123]") {
		t.Errorf("String() = %q", got)
	}
	if !Info().Calculated {
		t.Error("Info should be calculated for a valid date")
	}
}
