package usikit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"usikit/internal/errfmt"
)

// EngineCommandType identifies the kind of an engine-to-GUI command.
type EngineCommandType string

const (
	// EngineID declares the engine's name or author.
	EngineID EngineCommandType = "id"

	// EngineUsiOk completes the handshake.
	EngineUsiOk EngineCommandType = "usiok"

	// EngineReadyOk acknowledges a readiness query.
	EngineReadyOk EngineCommandType = "readyok"

	// EngineBestMove delivers a search result.
	EngineBestMove EngineCommandType = "bestmove"

	// EngineCheckmate delivers a mate-search result.
	EngineCheckmate EngineCommandType = "checkmate"

	// EngineOptionDecl declares a configurable option during handshake.
	EngineOptionDecl EngineCommandType = "option"

	// EngineInfo carries search progress details.
	EngineInfo EngineCommandType = "info"
)

// EngineCommand is a decoded engine-to-GUI command. Only the payload
// field matching Type is non-nil.
type EngineCommand struct {
	// Type identifies the command.
	Type EngineCommandType

	// ID holds the declaration payload (EngineID).
	ID *IDParams

	// BestMove holds the search result (EngineBestMove).
	BestMove *BestMoveParams

	// Checkmate holds the mate-search result (EngineCheckmate).
	Checkmate *CheckmateParams

	// Option holds the option declaration (EngineOptionDecl).
	Option *OptionDecl

	// Info holds search progress details (EngineInfo).
	Info *InfoParams

	// Line is the raw line the command was decoded from, trimmed.
	Line string
}

// IDAttr names the attribute an "id" line declares.
type IDAttr string

const (
	IDName   IDAttr = "name"
	IDAuthor IDAttr = "author"
)

// IDParams is the payload of an "id" line.
type IDParams struct {
	Attr  IDAttr
	Value string
}

// BestMoveParams is the payload of a "bestmove" line. Exactly one of
// Move, Resign and Win describes the outcome.
type BestMoveParams struct {
	// Move is the chosen move, empty for resignation and win claims.
	Move string

	// Ponder is the expected reply to ponder on, if any.
	Ponder string

	// Resign reports that the engine resigns.
	Resign bool

	// Win reports that the engine claims a win by declaration.
	Win bool
}

// CheckmateStatus classifies a mate-search outcome.
type CheckmateStatus string

const (
	// CheckmateFound means a mating line was found.
	CheckmateFound CheckmateStatus = "found"

	// CheckmateNone means the position has no mate.
	CheckmateNone CheckmateStatus = "nomate"

	// CheckmateNotImplemented means the engine does not support mate
	// search.
	CheckmateNotImplemented CheckmateStatus = "notimplemented"

	// CheckmateTimeout means the search ran out of time.
	CheckmateTimeout CheckmateStatus = "timeout"
)

// CheckmateParams is the payload of a "checkmate" line. Moves holds the
// mating line when Status is CheckmateFound.
type CheckmateParams struct {
	Status CheckmateStatus
	Moves  []string
}

// OptionKind is the declared type of an engine option.
type OptionKind string

const (
	OptionCheck    OptionKind = "check"
	OptionSpin     OptionKind = "spin"
	OptionCombo    OptionKind = "combo"
	OptionButton   OptionKind = "button"
	OptionString   OptionKind = "string"
	OptionFilename OptionKind = "filename"
)

// OptionDecl is the payload of an "option" declaration line.
type OptionDecl struct {
	// Name is the option's name.
	Name string

	// Kind is the declared option type.
	Kind OptionKind

	// Default is the declared default, rendered as a string: "true" or
	// "false" for check options, the declared value verbatim otherwise,
	// "" when no default was declared.
	Default string

	// HasDefault reports whether a default was declared. Distinguishes
	// "no default" from an explicitly empty one.
	HasDefault bool

	// Min and Max bound spin options; valid when HasMin/HasMax.
	Min    int64
	Max    int64
	HasMin bool
	HasMax bool

	// Vars lists the permitted values of a combo option.
	Vars []string
}

// Score is the evaluation carried by an "info score" field, from the
// engine's point of view.
type Score struct {
	// CP is the evaluation in centipawns.
	CP int

	// Mate is the distance to a forced mate in plies, negative when the
	// engine is being mated. Zero with MateFound set means the engine
	// announced a mate without a distance ("score mate +").
	Mate int

	// MateFound reports that the score is a mate score, not centipawns.
	MateFound bool
}

// InfoParams is the payload of an "info" line. Fields the engine did not
// send keep their zero value.
type InfoParams struct {
	Depth    int
	SelDepth int
	Time     time.Duration
	Nodes    int64
	NPS      int64
	MultiPV  int
	Hashfull int
	CurrMove string
	Score    *Score

	// PV is the principal variation, one move per element.
	PV []string

	// String is free-form text from an "info string" field.
	String string
}

// ParseEngineCommand decodes one engine output line into a typed
// command. Lines that are empty or do not follow the USI grammar fail
// with an error wrapping ErrIllegalSyntax; callers running read loops
// skip those and continue.
func ParseEngineCommand(line string) (EngineCommand, error) {
	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return EngineCommand{}, syntaxError(line)
	}

	cmd := EngineCommand{Line: trimmed}
	var err error
	switch fields[0] {
	case "usiok":
		cmd.Type = EngineUsiOk
	case "readyok":
		cmd.Type = EngineReadyOk
	case "id":
		cmd.Type = EngineID
		cmd.ID, err = parseID(fields)
	case "bestmove":
		cmd.Type = EngineBestMove
		cmd.BestMove, err = parseBestMove(fields)
	case "checkmate":
		cmd.Type = EngineCheckmate
		cmd.Checkmate, err = parseCheckmate(fields)
	case "option":
		cmd.Type = EngineOptionDecl
		cmd.Option, err = parseOption(fields)
	case "info":
		cmd.Type = EngineInfo
		cmd.Info, err = parseInfo(fields)
	default:
		return EngineCommand{}, syntaxError(line)
	}
	if err != nil {
		return EngineCommand{}, err
	}
	return cmd, nil
}

func syntaxError(line string) error {
	return fmt.Errorf("%w: %q", ErrIllegalSyntax, errfmt.Truncate(line))
}

func parseID(fields []string) (*IDParams, error) {
	if len(fields) < 3 {
		return nil, syntaxError(strings.Join(fields, " "))
	}
	attr := IDAttr(fields[1])
	if attr != IDName && attr != IDAuthor {
		return nil, syntaxError(strings.Join(fields, " "))
	}
	return &IDParams{Attr: attr, Value: strings.Join(fields[2:], " ")}, nil
}

func parseBestMove(fields []string) (*BestMoveParams, error) {
	switch len(fields) {
	case 2:
		switch fields[1] {
		case "resign":
			return &BestMoveParams{Resign: true}, nil
		case "win":
			return &BestMoveParams{Win: true}, nil
		}
		return &BestMoveParams{Move: fields[1]}, nil
	case 4:
		if fields[2] != "ponder" {
			return nil, syntaxError(strings.Join(fields, " "))
		}
		return &BestMoveParams{Move: fields[1], Ponder: fields[3]}, nil
	}
	return nil, syntaxError(strings.Join(fields, " "))
}

func parseCheckmate(fields []string) (*CheckmateParams, error) {
	if len(fields) < 2 {
		return nil, syntaxError(strings.Join(fields, " "))
	}
	switch fields[1] {
	case "nomate":
		return &CheckmateParams{Status: CheckmateNone}, nil
	case "notimplemented":
		return &CheckmateParams{Status: CheckmateNotImplemented}, nil
	case "timeout":
		return &CheckmateParams{Status: CheckmateTimeout}, nil
	}
	return &CheckmateParams{Status: CheckmateFound, Moves: fields[1:]}, nil
}

// optionKeywords terminate a multi-token value inside an option line.
var optionKeywords = map[string]bool{
	"name":    true,
	"type":    true,
	"default": true,
	"min":     true,
	"max":     true,
	"var":     true,
}

func parseOption(fields []string) (*OptionDecl, error) {
	raw := strings.Join(fields, " ")
	decl := &OptionDecl{}

	i := 1
	for i < len(fields) {
		key := fields[i]
		i++
		// Collect the value tokens up to the next keyword. Names and
		// string defaults may contain spaces.
		start := i
		for i < len(fields) && !optionKeywords[fields[i]] {
			i++
		}
		value := strings.Join(fields[start:i], " ")

		switch key {
		case "name":
			decl.Name = value
		case "type":
			decl.Kind = OptionKind(value)
		case "default":
			decl.Default = value
			decl.HasDefault = true
		case "min":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, syntaxError(raw)
			}
			decl.Min = n
			decl.HasMin = true
		case "max":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, syntaxError(raw)
			}
			decl.Max = n
			decl.HasMax = true
		case "var":
			decl.Vars = append(decl.Vars, value)
		default:
			return nil, syntaxError(raw)
		}
	}

	if decl.Name == "" {
		return nil, syntaxError(raw)
	}
	switch decl.Kind {
	case OptionCheck:
		if decl.HasDefault && decl.Default != "true" && decl.Default != "false" {
			return nil, syntaxError(raw)
		}
	case OptionSpin:
		if decl.HasDefault {
			if _, err := strconv.ParseInt(decl.Default, 10, 64); err != nil {
				return nil, syntaxError(raw)
			}
		}
	case OptionCombo, OptionButton, OptionString, OptionFilename:
	default:
		return nil, syntaxError(raw)
	}
	return decl, nil
}

func parseInfo(fields []string) (*InfoParams, error) {
	raw := strings.Join(fields, " ")
	info := &InfoParams{}

	i := 1
	for i < len(fields) {
		key := fields[i]
		i++
		switch key {
		case "depth", "seldepth", "multipv", "hashfull":
			n, ok := takeInt(fields, &i)
			if !ok {
				return nil, syntaxError(raw)
			}
			switch key {
			case "depth":
				info.Depth = n
			case "seldepth":
				info.SelDepth = n
			case "multipv":
				info.MultiPV = n
			case "hashfull":
				info.Hashfull = n
			}
		case "time":
			n, ok := takeInt(fields, &i)
			if !ok {
				return nil, syntaxError(raw)
			}
			info.Time = time.Duration(n) * time.Millisecond
		case "nodes", "nps":
			if i >= len(fields) {
				return nil, syntaxError(raw)
			}
			n, err := strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return nil, syntaxError(raw)
			}
			i++
			if key == "nodes" {
				info.Nodes = n
			} else {
				info.NPS = n
			}
		case "currmove":
			if i >= len(fields) {
				return nil, syntaxError(raw)
			}
			info.CurrMove = fields[i]
			i++
		case "score":
			score, next, err := parseScore(fields, i)
			if err != nil {
				return nil, err
			}
			info.Score = score
			i = next
		case "pv":
			info.PV = fields[i:]
			i = len(fields)
		case "string":
			info.String = strings.Join(fields[i:], " ")
			i = len(fields)
		default:
			return nil, syntaxError(raw)
		}
	}
	return info, nil
}

func parseScore(fields []string, i int) (*Score, int, error) {
	raw := strings.Join(fields, " ")
	if i+1 >= len(fields) {
		return nil, 0, syntaxError(raw)
	}
	kind, value := fields[i], fields[i+1]
	switch kind {
	case "cp":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, 0, syntaxError(raw)
		}
		return &Score{CP: n}, i + 2, nil
	case "mate":
		// Engines may announce a mate without a distance: "score mate +".
		if value == "+" || value == "-" {
			return &Score{MateFound: true}, i + 2, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, 0, syntaxError(raw)
		}
		return &Score{Mate: n, MateFound: true}, i + 2, nil
	}
	return nil, 0, syntaxError(raw)
}

func takeInt(fields []string, i *int) (int, bool) {
	if *i >= len(fields) {
		return 0, false
	}
	n, err := strconv.Atoi(fields[*i])
	if err != nil {
		return 0, false
	}
	*i++
	return n, true
}
