// Package usikit implements the GUI side of the USI (Universal Shogi
// Interface) protocol: typed commands for both directions of the wire,
// a line codec, and the error kinds shared by the engine session layer.
//
// The root package is purely textual — it never touches a process or a
// stream. Spawning engines, the handshake, and the listener hand-off
// live in usikit/engine.
//
// USI is line-oriented: the GUI writes commands such as "usi",
// "position …" and "go byoyomi 5000" to the engine's standard input,
// and the engine answers on standard output with "id …", "usiok",
// "bestmove …" and friends. Positions and moves are carried as opaque
// strings; usikit does not validate shogi semantics.
package usikit
