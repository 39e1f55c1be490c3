package usikit

import (
	"fmt"
	"strings"
)

// GuiCommandType identifies the kind of a GUI-to-engine command.
type GuiCommandType string

const (
	// GuiUsi initiates the handshake.
	GuiUsi GuiCommandType = "usi"

	// GuiIsReady asks the engine to confirm it has processed all prior
	// commands.
	GuiIsReady GuiCommandType = "isready"

	// GuiSetOption sets a declared engine option.
	GuiSetOption GuiCommandType = "setoption"

	// GuiNewGame announces the start of a new game.
	GuiNewGame GuiCommandType = "usinewgame"

	// GuiPosition sets the position to search from.
	GuiPosition GuiCommandType = "position"

	// GuiGo starts a search.
	GuiGo GuiCommandType = "go"

	// GuiStop asks the engine to end the current search.
	GuiStop GuiCommandType = "stop"

	// GuiPonderhit tells a pondering engine its predicted move was played.
	GuiPonderhit GuiCommandType = "ponderhit"

	// GuiQuit asks the engine process to exit.
	GuiQuit GuiCommandType = "quit"

	// GuiGameOver reports the game result to the engine.
	GuiGameOver GuiCommandType = "gameover"
)

// GameResult is the outcome reported by a "gameover" command.
type GameResult string

const (
	GameWin  GameResult = "win"
	GameLose GameResult = "lose"
	GameDraw GameResult = "draw"
)

// GuiCommand is a GUI-to-engine command. Build values with the
// constructor functions; only the fields relevant to Type are set.
type GuiCommand struct {
	// Type identifies the command.
	Type GuiCommandType

	// Name is the option name (GuiSetOption).
	Name string

	// Value is the option value (GuiSetOption). nil sends a valueless
	// "setoption name …", the form used for button options.
	Value *string

	// Position is the opaque position payload (GuiPosition), e.g.
	// "startpos", "startpos moves 7g7f" or "sfen …".
	Position string

	// Think holds search parameters (GuiGo).
	Think *ThinkParams

	// Result is the game outcome (GuiGameOver).
	Result GameResult
}

// Usi returns the handshake-initiation command.
func Usi() GuiCommand { return GuiCommand{Type: GuiUsi} }

// IsReady returns the readiness-query command.
func IsReady() GuiCommand { return GuiCommand{Type: GuiIsReady} }

// SetOption returns a "setoption" command. A nil value produces the
// valueless form.
func SetOption(name string, value *string) GuiCommand {
	return GuiCommand{Type: GuiSetOption, Name: name, Value: value}
}

// NewGame returns the "usinewgame" command.
func NewGame() GuiCommand { return GuiCommand{Type: GuiNewGame} }

// Position returns a "position" command. The payload is passed through
// verbatim; callers supply the "startpos …" or "sfen …" form themselves.
func Position(payload string) GuiCommand {
	return GuiCommand{Type: GuiPosition, Position: payload}
}

// Go returns a "go" command with the given search parameters.
func Go(params ThinkParams) GuiCommand {
	return GuiCommand{Type: GuiGo, Think: &params}
}

// Stop returns the "stop" command.
func Stop() GuiCommand { return GuiCommand{Type: GuiStop} }

// Ponderhit returns the "ponderhit" command.
func Ponderhit() GuiCommand { return GuiCommand{Type: GuiPonderhit} }

// Quit returns the "quit" command.
func Quit() GuiCommand { return GuiCommand{Type: GuiQuit} }

// GameOver returns a "gameover" command with the given result.
func GameOver(result GameResult) GuiCommand {
	return GuiCommand{Type: GuiGameOver, Result: result}
}

// Encode renders the command as a single protocol line, without the
// trailing newline. Unknown or malformed commands are an error.
func (c GuiCommand) Encode() (string, error) {
	switch c.Type {
	case GuiUsi, GuiIsReady, GuiNewGame, GuiStop, GuiPonderhit, GuiQuit:
		return string(c.Type), nil
	case GuiSetOption:
		if c.Name == "" {
			return "", fmt.Errorf("usikit: setoption without a name")
		}
		if c.Value == nil {
			return "setoption name " + c.Name, nil
		}
		return "setoption name " + c.Name + " value " + *c.Value, nil
	case GuiPosition:
		if c.Position == "" {
			return "", fmt.Errorf("usikit: position without a payload")
		}
		return "position " + c.Position, nil
	case GuiGo:
		var params string
		if c.Think != nil {
			params = c.Think.String()
		}
		if params == "" {
			return "go", nil
		}
		return "go " + params, nil
	case GuiGameOver:
		switch c.Result {
		case GameWin, GameLose, GameDraw:
			return "gameover " + string(c.Result), nil
		}
		return "", fmt.Errorf("usikit: gameover with unknown result %q", c.Result)
	}
	return "", fmt.Errorf("usikit: unknown GUI command type %q", c.Type)
}

// String implements fmt.Stringer for logging; encoding failures render
// as a diagnostic placeholder rather than an empty string.
func (c GuiCommand) String() string {
	line, err := c.Encode()
	if err != nil {
		return "<invalid " + strings.TrimPrefix(err.Error(), "usikit: ") + ">"
	}
	return line
}
