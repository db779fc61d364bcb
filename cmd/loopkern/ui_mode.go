package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui flag of analyze.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func (m uiMode) String() string {
	switch m {
	case uiModeOn:
		return "on"
	case uiModeOff:
		return "off"
	}
	return "auto"
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// progressTerminal reports whether stdout can host the progress view.
func progressTerminal() bool {
	return isTerminal(os.Stdout) && os.Getenv("TERM") != "dumb"
}

// shouldUseTUI decides whether directory mode draws the progress view.
// In auto mode json and quiet runs never get it.
func shouldUseTUI(mode uiMode, format string, quiet bool, tty func() bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	if format != "pretty" || quiet {
		return false
	}
	return tty()
}
