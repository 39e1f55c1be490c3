package engine

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usikit"
)

// newStreamHandler builds a Handler over in-memory streams: the engine
// "output" is the given canned text, and everything the handler writes
// lands in the returned buffer. No process is involved.
func newStreamHandler(output string) (*Handler, *bytes.Buffer) {
	var written bytes.Buffer
	h := &Handler{
		writer:  bufio.NewWriter(&written),
		scanner: newLineScanner(strings.NewReader(output), defaultScannerBuffer),
	}
	return h, &written
}

func writtenLines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestGetInfoCollectsHandshake(t *testing.T) {
	h, written := newStreamHandler(strings.Join([]string{
		"id name TestEngine",
		"id author the CSA",
		"option name Threads type spin default 4 min 1 max 256",
		"option name USI_Ponder type check default false",
		"option name Clear_Hash type button",
		"usiok",
	}, "\n") + "\n")

	info, err := h.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "TestEngine", info.Name())
	assert.Equal(t, map[string]string{
		"Threads":    "4",
		"USI_Ponder": "false",
		"Clear_Hash": "",
	}, info.Options())
	assert.Equal(t, []string{"usi"}, writtenLines(written))
}

func TestGetInfoScenario(t *testing.T) {
	h, _ := newStreamHandler("id name TestEngine\noption name Threads type spin default 4\nusiok\n")

	info, err := h.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "TestEngine", info.Name())
	assert.Equal(t, "4", info.Options()["Threads"])
}

func TestGetInfoSkipsNoise(t *testing.T) {
	// Foreign-dialect startup noise interleaved with valid lines: the
	// last name wins, options accumulate, malformed lines vanish.
	h, _ := newStreamHandler(strings.Join([]string{
		"Fairy-Stockfish 14 by Fabian Fichter",
		"id name First",
		"uciok is not a usi line",
		"option name A type spin default 1",
		"",
		"id name Second",
		"option name B type string default b.bin",
		"usiok",
	}, "\n") + "\n")

	info, err := h.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "Second", info.Name())
	assert.Equal(t, map[string]string{"A": "1", "B": "b.bin"}, info.Options())
}

func TestGetInfoStreamClosed(t *testing.T) {
	h, _ := newStreamHandler("id name NeverFinishes\n")

	_, err := h.GetInfo()
	require.ErrorIs(t, err, io.EOF)
}

func TestGetInfoOptionsImmutable(t *testing.T) {
	h, _ := newStreamHandler("option name A type spin default 1\nusiok\n")

	info, err := h.GetInfo()
	require.NoError(t, err)
	info.Options()["A"] = "tampered"
	assert.Equal(t, "1", info.Options()["A"])
}

func TestSendCommandBeforeHandshake(t *testing.T) {
	h, written := newStreamHandler("usiok\n")

	err := h.SendCommandBeforeHandshake(usikit.SetOption("UCI_Variant", strptr("shogi")))
	require.NoError(t, err)
	assert.Equal(t, []string{"setoption name UCI_Variant value shogi"}, writtenLines(written))
}

func TestSendCommandBeforeHandshakeAfterHandshakeStarted(t *testing.T) {
	h, _ := newStreamHandler("usiok\n")

	_, err := h.GetInfo()
	require.NoError(t, err)

	err = h.SendCommandBeforeHandshake(usikit.SetOption("Protocol", strptr("usi")))
	assert.ErrorIs(t, err, usikit.ErrIllegalOperation)
}

func TestHandshakePhaseIsMonotonic(t *testing.T) {
	// Even a failed handshake moves the phase forward; it never resets.
	h, _ := newStreamHandler("")

	_, err := h.GetInfo()
	require.Error(t, err)

	err = h.SendCommandBeforeHandshake(usikit.SetOption("Protocol", strptr("usi")))
	assert.ErrorIs(t, err, usikit.ErrIllegalOperation)
}

func TestPrepare(t *testing.T) {
	h, written := newStreamHandler(strings.Join([]string{
		"info string initializing",
		"nonsense line",
		"readyok",
	}, "\n") + "\n")

	require.NoError(t, h.Prepare())
	assert.Equal(t, []string{"isready"}, writtenLines(written))
}

func TestPrepareStreamClosed(t *testing.T) {
	h, _ := newStreamHandler("info string never ready\n")
	assert.ErrorIs(t, h.Prepare(), io.EOF)
}

func TestSendCommand(t *testing.T) {
	h, written := newStreamHandler("")

	require.NoError(t, h.SendCommand(usikit.Position("startpos moves 7g7f")))
	require.NoError(t, h.SendCommand(usikit.Go(usikit.ThinkParams{Byoyomi: time.Second})))
	assert.Equal(t, []string{
		"position startpos moves 7g7f",
		"go btime 0 wtime 0 byoyomi 1000",
	}, writtenLines(written))
}

func TestListenHandsOffExactlyOnce(t *testing.T) {
	h, _ := newStreamHandler("")

	_, err := h.Listen(func(usikit.EngineCommand) error { return nil })
	require.NoError(t, err)

	_, err = h.Listen(func(usikit.EngineCommand) error { return nil })
	assert.ErrorIs(t, err, usikit.ErrIllegalOperation)
}

func TestHandshakeAfterListenIsIllegal(t *testing.T) {
	h, _ := newStreamHandler("usiok\nreadyok\n")

	_, err := h.Listen(func(usikit.EngineCommand) error { return nil })
	require.NoError(t, err)

	_, err = h.GetInfo()
	assert.ErrorIs(t, err, usikit.ErrIllegalOperation)
	assert.ErrorIs(t, h.Prepare(), usikit.ErrIllegalOperation)
}

func TestListenDeliversCommandsInOrder(t *testing.T) {
	h, _ := newStreamHandler(strings.Join([]string{
		"info depth 1",
		"complete garbage",
		"bestmove 5g5f ponder 3c3d",
		"bestmove resign",
	}, "\n") + "\n")

	got := make(chan usikit.EngineCommand, 8)
	errc, err := h.Listen(func(c usikit.EngineCommand) error {
		got <- c
		return nil
	})
	require.NoError(t, err)

	// The stream ends after the canned lines, so the loop terminates with
	// the stream-closed failure.
	select {
	case loopErr := <-errc:
		assert.ErrorIs(t, loopErr, io.EOF)
	case <-time.After(5 * time.Second):
		t.Fatal("listener loop did not finish")
	}
	close(got)

	var types []usikit.EngineCommandType
	for c := range got {
		types = append(types, c.Type)
	}
	assert.Equal(t, []usikit.EngineCommandType{
		usikit.EngineInfo,
		usikit.EngineBestMove,
		usikit.EngineBestMove,
	}, types)
}

func TestListenHookErrorEndsLoop(t *testing.T) {
	h, _ := newStreamHandler("bestmove 5g5f\nbestmove 2g2f\n")

	hookFailure := errors.New("consumer rejected the move")
	calls := 0
	errc, err := h.Listen(func(usikit.EngineCommand) error {
		calls++
		return hookFailure
	})
	require.NoError(t, err)

	select {
	case loopErr := <-errc:
		var hookErr *usikit.HookError
		require.ErrorAs(t, loopErr, &hookErr)
		assert.ErrorIs(t, loopErr, hookFailure)
	case <-time.After(5 * time.Second):
		t.Fatal("listener loop did not finish")
	}
	assert.Equal(t, 1, calls)
}

func strptr(s string) *string { return &s }
