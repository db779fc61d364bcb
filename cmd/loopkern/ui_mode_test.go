package main

import "testing"

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{" AUTO ", uiModeAuto, false},
		{"on", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", uiModeAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := readUIMode(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("readUIMode(%q) = %s, %v", tt.in, got, err)
			}
		})
	}
}

func TestShouldUseTUI(t *testing.T) {
	tty := func() bool { return true }
	pipe := func() bool { return false }
	tests := []struct {
		name   string
		mode   uiMode
		format string
		quiet  bool
		tty    func() bool
		want   bool
	}{
		{"forced on", uiModeOn, "json", true, pipe, true},
		{"forced off", uiModeOff, "pretty", false, tty, false},
		{"auto json", uiModeAuto, "json", false, tty, false},
		{"auto quiet", uiModeAuto, "pretty", true, tty, false},
		{"auto pipe", uiModeAuto, "pretty", false, pipe, false},
		{"auto tty", uiModeAuto, "pretty", false, tty, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldUseTUI(tt.mode, tt.format, tt.quiet, tt.tty); got != tt.want {
				t.Errorf("shouldUseTUI = %v, want %v", got, tt.want)
			}
		})
	}
}
