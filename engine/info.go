package engine

// Info is an immutable snapshot of the identity an engine declared
// during the handshake: its display name and the declared options with
// their defaults rendered as strings. Built by Handler.GetInfo and never
// modified afterwards.
type Info struct {
	name    string
	options map[string]string
}

// Name returns the engine's declared display name, or "" if the engine
// never sent an "id name" line.
func (i *Info) Name() string { return i.name }

// Options returns the declared options keyed by name, each mapped to its
// default rendered as a string: "true"/"false" for check options, the
// declared value verbatim otherwise, "" for options without a default.
// The returned map is a copy; mutating it does not affect the Info.
func (i *Info) Options() map[string]string {
	out := make(map[string]string, len(i.options))
	for k, v := range i.options {
		out[k] = v
	}
	return out
}
