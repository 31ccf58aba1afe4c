package imap

import (
	"strings"
)

// Result accumulates the responses observed while a command is running.
//
// A Result is created when a command is issued and filled by the connection
// with every response read until the tagged completion of its command. It
// must be treated as read-only once Done returns true.
type Result struct {
	// Seq is the connection-local sequence number of the command.
	Seq     uint64
	Command *Command

	responses []Response
	tagged    *TaggedResponse
}

// NewResult creates a result for cmd.
func NewResult(seq uint64, cmd *Command) *Result {
	return &Result{Seq: seq, Command: cmd}
}

// Add records a response. Recording the tagged response matching the
// command tag completes the result.
func (r *Result) Add(resp Response) {
	if r.tagged != nil {
		panic("imap: response added to a completed result")
	}
	r.responses = append(r.responses, resp)
	if tagged, ok := resp.(*TaggedResponse); ok && r.Command != nil && tagged.Tag() == r.Command.Tag() {
		r.tagged = tagged
	}
}

// Done returns true once the tagged completion has been observed.
func (r *Result) Done() bool {
	return r.tagged != nil
}

// Lines returns the lines sent for the command.
func (r *Result) Lines() []string {
	if r.Command == nil {
		return nil
	}
	return r.Command.Compile()
}

// Responses returns all responses, in the order they were read.
func (r *Result) Responses() []Response {
	return r.responses
}

// Tagged returns the tagged completion, or nil if the command is still
// running.
func (r *Result) Tagged() *TaggedResponse {
	return r.tagged
}

// Untagged returns the untagged responses.
func (r *Result) Untagged() []*UntaggedResponse {
	var l []*UntaggedResponse
	for _, resp := range r.responses {
		if resp, ok := resp.(*UntaggedResponse); ok {
			l = append(l, resp)
		}
	}
	return l
}

// UntaggedOfType returns the untagged responses of the given type, compared
// case-insensitively.
func (r *Result) UntaggedOfType(typ string) []*UntaggedResponse {
	typ = strings.ToUpper(typ)
	var l []*UntaggedResponse
	for _, resp := range r.Untagged() {
		if resp.Type() == typ {
			l = append(l, resp)
		}
	}
	return l
}

// Continuations returns the continuation requests received.
func (r *Result) Continuations() []*ContinuationResponse {
	var l []*ContinuationResponse
	for _, resp := range r.responses {
		if resp, ok := resp.(*ContinuationResponse); ok {
			l = append(l, resp)
		}
	}
	return l
}
