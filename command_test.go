package usikit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usikit"
)

func strptr(s string) *string { return &s }

func TestGuiCommandEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  usikit.GuiCommand
		want string
	}{
		{"usi", usikit.Usi(), "usi"},
		{"isready", usikit.IsReady(), "isready"},
		{"usinewgame", usikit.NewGame(), "usinewgame"},
		{"stop", usikit.Stop(), "stop"},
		{"ponderhit", usikit.Ponderhit(), "ponderhit"},
		{"quit", usikit.Quit(), "quit"},
		{"setoption with value", usikit.SetOption("USI_Hash", strptr("256")), "setoption name USI_Hash value 256"},
		{"setoption valueless", usikit.SetOption("Clear_Hash", nil), "setoption name Clear_Hash"},
		{"position startpos", usikit.Position("startpos"), "position startpos"},
		{"position sfen", usikit.Position("sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"), "position sfen lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"},
		{"position with moves", usikit.Position("startpos moves 7g7f 3c3d"), "position startpos moves 7g7f 3c3d"},
		{"go zero params", usikit.Go(usikit.ThinkParams{}), "go"},
		{"gameover win", usikit.GameOver(usikit.GameWin), "gameover win"},
		{"gameover lose", usikit.GameOver(usikit.GameLose), "gameover lose"},
		{"gameover draw", usikit.GameOver(usikit.GameDraw), "gameover draw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Encode()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuiCommandEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  usikit.GuiCommand
	}{
		{"setoption without name", usikit.GuiCommand{Type: usikit.GuiSetOption}},
		{"position without payload", usikit.GuiCommand{Type: usikit.GuiPosition}},
		{"gameover unknown result", usikit.GuiCommand{Type: usikit.GuiGameOver, Result: "stalemate"}},
		{"unknown type", usikit.GuiCommand{Type: "banana"}},
		{"zero value", usikit.GuiCommand{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.Encode()
			require.Error(t, err)
		})
	}
}

func TestThinkParamsString(t *testing.T) {
	tests := []struct {
		name   string
		params usikit.ThinkParams
		want   string
	}{
		{"zero value", usikit.ThinkParams{}, ""},
		{"byoyomi carries zero clocks", usikit.ThinkParams{Byoyomi: 5 * time.Second}, "btime 0 wtime 0 byoyomi 5000"},
		{"infinite", usikit.ThinkParams{Infinite: true}, "infinite"},
		{
			"full clock",
			usikit.ThinkParams{
				BlackTime: 60 * time.Second,
				WhiteTime: 50 * time.Second,
				Byoyomi:   10 * time.Second,
			},
			"btime 60000 wtime 50000 byoyomi 10000",
		},
		{
			"fischer increments",
			usikit.ThinkParams{
				BlackTime: 3 * time.Minute,
				WhiteTime: 3 * time.Minute,
				BlackInc:  2 * time.Second,
				WhiteInc:  2 * time.Second,
			},
			"btime 180000 wtime 180000 binc 2000 winc 2000",
		},
		{
			"ponder with clock",
			usikit.ThinkParams{Ponder: true, BlackTime: time.Second, WhiteTime: time.Second},
			"ponder btime 1000 wtime 1000",
		},
		{"mate with timeout", usikit.ThinkParams{Mate: usikit.MateIn(30 * time.Second)}, "mate 30000"},
		{"mate infinite", usikit.ThinkParams{Mate: usikit.MateInfinite()}, "mate infinite"},
		{
			"mate wins over everything",
			usikit.ThinkParams{Infinite: true, Byoyomi: time.Second, Mate: usikit.MateInfinite()},
			"mate infinite",
		},
		{
			"infinite wins over clock",
			usikit.ThinkParams{Infinite: true, Byoyomi: time.Second},
			"infinite",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.String())
		})
	}
}

func TestGoEncodesParams(t *testing.T) {
	got, err := usikit.Go(usikit.ThinkParams{Byoyomi: 5 * time.Second}).Encode()
	require.NoError(t, err)
	assert.Equal(t, "go btime 0 wtime 0 byoyomi 5000", got)
}

func TestGuiCommandString(t *testing.T) {
	assert.Equal(t, "usi", usikit.Usi().String())
	assert.Contains(t, usikit.GuiCommand{Type: "banana"}.String(), "invalid")
}
