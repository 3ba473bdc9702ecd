package main

import (
	"os"

	"github.com/jrsteele09/go-warehouse-console/session"
	"golang.org/x/term"
)

const (
	Red        = "\033[31m"
	Green      = "\033[32m"
	Yellow     = "\033[33m"
	Gray       = "\033[90m"
	ResetColor = "\033[0m"
)

var phaseColors = map[session.Phase]string{
	session.PhaseAnonymous:      Gray,
	session.PhaseAuthenticating: Yellow,
	session.PhaseAuthenticated:  Green,
	session.PhaseFailed:         Red,
}

// colourPhase wraps phase in its colour when stdout is a terminal
func colourPhase(phase session.Phase) string {
	colour, ok := phaseColors[phase]
	if !ok || !term.IsTerminal(int(os.Stdout.Fd())) {
		return string(phase)
	}
	return colour + string(phase) + ResetColor
}
