package imap

import (
	"strconv"
	"strings"
	"sync"
)

// Arg is a command argument: either inline text or a literal.
//
// A literal argument is sent as its Marker (e.g. "{20}") at the end of a
// line. The server must then acknowledge it with a continuation request
// before the Payload is sent.
type Arg struct {
	// Inline is written as-is, separated from the previous argument by a
	// single space.
	Inline string
	// Marker and Payload are set for literal arguments.
	Marker  string
	Payload string

	literal bool
}

// RawArg returns an inline argument written verbatim.
func RawArg(s string) Arg {
	return Arg{Inline: s}
}

// LiteralArg returns a synchronizing literal argument.
func LiteralArg(payload []byte) Arg {
	return Arg{
		Marker:  "{" + strconv.Itoa(len(payload)) + "}",
		Payload: string(payload),
		literal: true,
	}
}

// LiteralArgWithMarker returns a literal argument with an explicit marker.
func LiteralArgWithMarker(marker, payload string) Arg {
	return Arg{Marker: marker, Payload: payload, literal: true}
}

// IsLiteral returns true if the argument is a literal.
func (arg Arg) IsLiteral() bool {
	return arg.literal
}

// Command is a tagged command ready to be written.
//
// A Command is immutable once created. Its compiled lines are computed once.
type Command struct {
	tag  string
	verb string
	args []Arg

	once  sync.Once
	lines []string
}

// NewCommand creates a new command.
func NewCommand(tag, verb string, args ...Arg) *Command {
	return &Command{
		tag:  tag,
		verb: verb,
		args: append([]Arg(nil), args...),
	}
}

// Tag returns the command tag.
func (cmd *Command) Tag() string {
	return cmd.tag
}

// Verb returns the command name, e.g. "UID FETCH".
func (cmd *Command) Verb() string {
	return cmd.verb
}

// Args returns a copy of the command arguments.
func (cmd *Command) Args() []Arg {
	return append([]Arg(nil), cmd.args...)
}

// Compile returns the wire lines of the command, without CRLF.
//
// A command with N literal arguments compiles to N+1 lines: every line but
// the last ends with a literal marker, and the next line starts with the
// literal payload.
func (cmd *Command) Compile() []string {
	cmd.once.Do(func() {
		var (
			lines []string
			line  strings.Builder
		)
		line.WriteString(cmd.tag)
		if cmd.verb != "" {
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(cmd.verb)
		}
		for _, arg := range cmd.args {
			if arg.literal {
				line.WriteByte(' ')
				line.WriteString(arg.Marker)
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(arg.Payload)
			} else {
				line.WriteByte(' ')
				line.WriteString(arg.Inline)
			}
		}
		cmd.lines = append(lines, line.String())
	})
	return cmd.lines
}

// String returns the compiled command joined with CRLF.
func (cmd *Command) String() string {
	return strings.Join(cmd.Compile(), "\r\n")
}

// Redacted returns a loggable form of the command, with arguments hidden
// for commands carrying credentials.
func (cmd *Command) Redacted() string {
	switch strings.ToUpper(cmd.verb) {
	case "LOGIN", "AUTHENTICATE":
		return cmd.tag + " " + cmd.verb + " <redacted>"
	}
	var sb strings.Builder
	sb.WriteString(cmd.tag)
	sb.WriteByte(' ')
	sb.WriteString(cmd.verb)
	for _, arg := range cmd.args {
		sb.WriteByte(' ')
		if arg.literal {
			sb.WriteString(arg.Marker)
		} else {
			sb.WriteString(arg.Inline)
		}
	}
	return sb.String()
}
