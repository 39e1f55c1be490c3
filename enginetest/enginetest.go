//go:build !windows

// Package enginetest provides scripted fake USI engines for tests.
//
// A Responder is rendered to a small POSIX shell script that answers the
// handshake, readiness queries and searches with canned lines, so
// session and facade tests can exercise real process spawning, pipes and
// teardown without a shogi engine on the machine.
package enginetest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Responder describes a scripted fake engine. The zero value is a
// minimal conforming engine named TestEngine that answers every search
// with "bestmove 5g5f".
type Responder struct {
	// Name is the engine name declared during the handshake.
	// Empty means "TestEngine".
	Name string

	// Options are raw option declaration lines emitted before "usiok".
	Options []string

	// StartupNoise lines are printed before reading any input,
	// simulating foreign-dialect banners from non-conformant engines.
	StartupNoise []string

	// HandshakeNoise lines are printed after "usi" is received, before
	// the id declaration.
	HandshakeNoise []string

	// BestMove is the line emitted for a "go" command.
	// Empty means "bestmove 5g5f".
	BestMove string

	// MateResult is the line emitted for a "go mate" command.
	// Empty means "checkmate notimplemented".
	MateResult string

	// LogFile, when set, receives every line the engine reads from its
	// input, one per line, in arrival order. Used to verify writer-side
	// command ordering.
	LogFile string
}

// Script renders the responder and writes it as an executable shell
// script under t.TempDir, returning its path.
func (r Responder) Script(t *testing.T) string {
	t.Helper()
	return Script(t, r.body())
}

// Script writes body as an executable shell script under t.TempDir and
// returns its path.
func Script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine.sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake engine script: %v", err)
	}
	return path
}

func (r Responder) body() string {
	name := r.Name
	if name == "" {
		name = "TestEngine"
	}
	bestmove := r.BestMove
	if bestmove == "" {
		bestmove = "bestmove 5g5f"
	}
	mate := r.MateResult
	if mate == "" {
		mate = "checkmate notimplemented"
	}

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	for _, line := range r.StartupNoise {
		emit(&b, "", line)
	}
	b.WriteString("while IFS= read -r line; do\n")
	if r.LogFile != "" {
		b.WriteString("  printf '%s\\n' \"$line\" >> '" + r.LogFile + "'\n")
	}
	b.WriteString("  case \"$line\" in\n")
	b.WriteString("    usi)\n")
	for _, line := range r.HandshakeNoise {
		emit(&b, "      ", line)
	}
	emit(&b, "      ", "id name "+name)
	for _, line := range r.Options {
		emit(&b, "      ", line)
	}
	emit(&b, "      ", "usiok")
	b.WriteString("      ;;\n")
	b.WriteString("    isready)\n")
	emit(&b, "      ", "readyok")
	b.WriteString("      ;;\n")
	b.WriteString("    \"go mate\"*)\n")
	emit(&b, "      ", mate)
	b.WriteString("      ;;\n")
	b.WriteString("    go*)\n")
	emit(&b, "      ", bestmove)
	b.WriteString("      ;;\n")
	b.WriteString("    quit)\n")
	b.WriteString("      exit 0\n")
	b.WriteString("      ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("done\n")
	return b.String()
}

// emit writes a printf line producing the given output line. printf with
// single quotes keeps the canned lines verbatim; the canned lines must
// not contain single quotes themselves.
func emit(b *strings.Builder, indent, line string) {
	b.WriteString(indent + "printf '%s\\n' '" + line + "'\n")
}
