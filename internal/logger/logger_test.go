package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"info", "console", false},
		{"debug", "json", false},
		{"", "console", false},
		{"verbose", "console", true},
	}

	for _, tt := range tests {
		log, err := New(tt.level, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q, %q): err = %v, wantErr = %v", tt.level, tt.format, err, tt.wantErr)
			continue
		}
		if err == nil && log == nil {
			t.Errorf("New(%q, %q): nil logger", tt.level, tt.format)
		}
	}
}
