package dupescan

import "testing"

func TestVerboseLevelRoundTrip(t *testing.T) {
	t.Cleanup(func() { SetVerboseLevel(0) })

	for level := 0; level <= 3; level++ {
		SetVerboseLevel(level)
		if got := GetVerboseLevel(); got != level {
			t.Errorf("Expected verbose level %d, got %d", level, got)
		}
	}
}

func TestSetDebugFlags(t *testing.T) {
	t.Cleanup(func() { SetDebugFlags("") })

	tests := []struct {
		name     string
		flagsStr string
		enabled  []string
		disabled []string
	}{
		{
			name:     "bare names",
			flagsStr: "scan,hash",
			enabled:  []string{"scan", "hash"},
			disabled: []string{"compare", "csv"},
		},
		{
			name:     "explicit values",
			flagsStr: "scan:true,hash:off,filter:0",
			enabled:  []string{"scan"},
			disabled: []string{"hash", "filter"},
		},
		{
			name:     "case insensitive",
			flagsStr: "SCAN",
			enabled:  []string{"scan", "Scan", "SCAN"},
			disabled: []string{"hash"},
		},
		{
			name:     "whitespace tolerated",
			flagsStr: " scan , hash ",
			enabled:  []string{"scan", "hash"},
		},
		{
			name:     "empty string clears all",
			flagsStr: "",
			disabled: []string{"scan", "hash"},
		},
		{
			name:     "unknown value reads as true",
			flagsStr: "scan:maybe",
			enabled:  []string{"scan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebugFlags(tt.flagsStr)

			for _, flag := range tt.enabled {
				if !IsDebugEnabled(flag) {
					t.Errorf("Expected flag %q to be enabled", flag)
				}
			}
			for _, flag := range tt.disabled {
				if IsDebugEnabled(flag) {
					t.Errorf("Expected flag %q to be disabled", flag)
				}
			}
		})
	}
}
