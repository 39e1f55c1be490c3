package usikit

import (
	"strconv"
	"strings"
	"time"
)

// ThinkParams describes the search parameters of a "go" command.
// The zero value encodes as a bare "go". Durations are encoded in
// milliseconds, the protocol's time unit.
type ThinkParams struct {
	// Ponder starts a pondering search ("go ponder …").
	Ponder bool

	// BlackTime and WhiteTime are the remaining clock times
	// (btime/wtime).
	BlackTime time.Duration
	WhiteTime time.Duration

	// BlackInc and WhiteInc are per-move increments (binc/winc).
	BlackInc time.Duration
	WhiteInc time.Duration

	// Byoyomi is the fixed per-move allowance (byoyomi).
	Byoyomi time.Duration

	// Infinite searches until "stop" ("go infinite").
	// Takes precedence over the clock fields.
	Infinite bool

	// Mate, when non-nil, requests a mate search ("go mate …").
	// Takes precedence over every other field.
	Mate *MateParam
}

// MateParam bounds a mate search: either a timeout or unbounded.
type MateParam struct {
	// Infinite searches for a mate without a time bound.
	Infinite bool

	// Timeout is the search time bound, used when Infinite is false.
	Timeout time.Duration
}

// MateIn returns parameters for a mate search bounded by timeout.
func MateIn(timeout time.Duration) *MateParam {
	return &MateParam{Timeout: timeout}
}

// MateInfinite returns parameters for an unbounded mate search.
func MateInfinite() *MateParam {
	return &MateParam{Infinite: true}
}

// String renders the parameters as the argument portion of a "go" line,
// without the leading "go" token. The zero value renders as "".
func (p ThinkParams) String() string {
	if p.Mate != nil {
		if p.Mate.Infinite {
			return "mate infinite"
		}
		return "mate " + millis(p.Mate.Timeout)
	}
	if p.Infinite {
		return "infinite"
	}

	var b strings.Builder
	if p.Ponder {
		b.WriteString("ponder")
	}
	// btime/wtime travel as a pair: engines expect both once either clock
	// or a byoyomi allowance is in play.
	if p.BlackTime > 0 || p.WhiteTime > 0 || p.BlackInc > 0 || p.WhiteInc > 0 || p.Byoyomi > 0 {
		writeField(&b, "btime", p.BlackTime)
		writeField(&b, "wtime", p.WhiteTime)
	}
	if p.BlackInc > 0 || p.WhiteInc > 0 {
		writeField(&b, "binc", p.BlackInc)
		writeField(&b, "winc", p.WhiteInc)
	}
	if p.Byoyomi > 0 {
		writeField(&b, "byoyomi", p.Byoyomi)
	}
	return b.String()
}

func writeField(b *strings.Builder, name string, d time.Duration) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(millis(d))
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
