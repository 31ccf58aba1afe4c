package imap

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusResponseType is a generic status response type.
type StatusResponseType string

const (
	StatusResponseTypeOK      StatusResponseType = "OK"
	StatusResponseTypeNo      StatusResponseType = "NO"
	StatusResponseTypeBad     StatusResponseType = "BAD"
	StatusResponseTypePreAuth StatusResponseType = "PREAUTH"
	StatusResponseTypeBye     StatusResponseType = "BYE"
)

// ResponseCode is a response code.
type ResponseCode string

const (
	ResponseCodeAlert                ResponseCode = "ALERT"
	ResponseCodeAlreadyExists        ResponseCode = "ALREADYEXISTS"
	ResponseCodeAppendUID            ResponseCode = "APPENDUID"
	ResponseCodeAuthenticationFailed ResponseCode = "AUTHENTICATIONFAILED"
	ResponseCodeCapability           ResponseCode = "CAPABILITY"
	ResponseCodeCopyUID              ResponseCode = "COPYUID"
	ResponseCodeNonExistent          ResponseCode = "NONEXISTENT"
	ResponseCodeOverQuota            ResponseCode = "OVERQUOTA"
	ResponseCodeParse                ResponseCode = "PARSE"
	ResponseCodePermanentFlags       ResponseCode = "PERMANENTFLAGS"
	ResponseCodeReadOnly             ResponseCode = "READ-ONLY"
	ResponseCodeReadWrite            ResponseCode = "READ-WRITE"
	ResponseCodeTryCreate            ResponseCode = "TRYCREATE"
	ResponseCodeUIDNext              ResponseCode = "UIDNEXT"
	ResponseCodeUIDValidity          ResponseCode = "UIDVALIDITY"
	ResponseCodeUnavailable          ResponseCode = "UNAVAILABLE"
	ResponseCodeUnseen               ResponseCode = "UNSEEN"
)

// Response is a response read from the server.
//
// Response is a closed sum type: it is implemented by *UntaggedResponse,
// *TaggedResponse and *ContinuationResponse.
type Response interface {
	// Tokens returns the data nodes of the response, including the leading
	// "*", "+" or tag.
	Tokens() []Data
	// TokenAt returns the data node at position i, or nil.
	TokenAt(i int) Data
	// Values unwraps all data nodes recursively.
	Values() []interface{}
	// String returns the wire representation of the response, without the
	// trailing CRLF.
	String() string

	isResponse()
}

var (
	_ Response = (*UntaggedResponse)(nil)
	_ Response = (*TaggedResponse)(nil)
	_ Response = (*ContinuationResponse)(nil)
)

type tokens []Data

func (t tokens) Tokens() []Data {
	return t
}

func (t tokens) TokenAt(i int) Data {
	return List(t).At(i)
}

func (t tokens) Values() []interface{} {
	return values(t)
}

func (t tokens) String() string {
	return joinData(t)
}

func (t tokens) atom(i int) string {
	if a, ok := t.TokenAt(i).(Atom); ok {
		return string(a)
	}
	return ""
}

// text renders tokens starting at position i, without the response code.
func (t tokens) text(i int) string {
	rest := []Data(t)
	if i >= len(rest) {
		return ""
	}
	rest = rest[i:]
	if _, _, n := parseCode(rest); n > 0 {
		rest = rest[n:]
	}
	return joinData(rest)
}

// UntaggedResponse is a response starting with "*".
type UntaggedResponse struct {
	tokens
}

// NewUntaggedResponse creates an untagged response. The first token must be
// the "*" atom.
func NewUntaggedResponse(data []Data) *UntaggedResponse {
	return &UntaggedResponse{tokens: data}
}

func (*UntaggedResponse) isResponse() {}

// Number returns the leading number of responses such as "* 3 EXISTS".
func (resp *UntaggedResponse) Number() (uint32, bool) {
	n, err := strconv.ParseUint(resp.atom(1), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// Type returns the response type, e.g. "OK", "FETCH" or "EXISTS". The type
// is upper-cased.
func (resp *UntaggedResponse) Type() string {
	if _, ok := resp.Number(); ok {
		return strings.ToUpper(resp.atom(2))
	}
	return strings.ToUpper(resp.atom(1))
}

// Data returns the payload following the response type.
func (resp *UntaggedResponse) Data() []Data {
	start := 2
	if _, ok := resp.Number(); ok {
		start = 3
	}
	if start > len(resp.tokens) {
		return nil
	}
	return resp.tokens[start:]
}

// IsStatus returns true if this is an OK, NO, BAD, PREAUTH or BYE response.
func (resp *UntaggedResponse) IsStatus() bool {
	switch StatusResponseType(resp.Type()) {
	case StatusResponseTypeOK, StatusResponseTypeNo, StatusResponseTypeBad, StatusResponseTypePreAuth, StatusResponseTypeBye:
		return true
	}
	return false
}

// Code returns the response code of a status response, e.g.
// "* OK [UIDVALIDITY 42] UIDs valid".
func (resp *UntaggedResponse) Code() (ResponseCode, []Data) {
	if !resp.IsStatus() {
		return "", nil
	}
	code, args, _ := parseCode(resp.Data())
	return code, args
}

// Text returns the human-readable text of a status response.
func (resp *UntaggedResponse) Text() string {
	return resp.tokens.text(2)
}

// TaggedResponse is the status response completing a command.
type TaggedResponse struct {
	tokens
}

// NewTaggedResponse creates a tagged response.
func NewTaggedResponse(data []Data) *TaggedResponse {
	return &TaggedResponse{tokens: data}
}

func (*TaggedResponse) isResponse() {}

// Tag returns the tag of the command this response completes.
func (resp *TaggedResponse) Tag() string {
	s, _ := AsString(resp.TokenAt(0))
	return s
}

// Status returns the status condition, upper-cased.
func (resp *TaggedResponse) Status() StatusResponseType {
	return StatusResponseType(strings.ToUpper(resp.atom(1)))
}

// Successful returns true if the status is OK.
func (resp *TaggedResponse) Successful() bool {
	return resp.Status() == StatusResponseTypeOK
}

// Failed returns true if the status is NO or BAD.
func (resp *TaggedResponse) Failed() bool {
	switch resp.Status() {
	case StatusResponseTypeNo, StatusResponseTypeBad:
		return true
	}
	return false
}

// Code returns the response code, if any.
func (resp *TaggedResponse) Code() (ResponseCode, []Data) {
	if len(resp.tokens) < 3 {
		return "", nil
	}
	code, args, _ := parseCode(resp.tokens[2:])
	return code, args
}

// Text returns the human-readable text.
func (resp *TaggedResponse) Text() string {
	return resp.tokens.text(2)
}

// ContinuationResponse is a continuation request starting with "+".
type ContinuationResponse struct {
	tokens
}

// NewContinuationResponse creates a continuation response.
func NewContinuationResponse(data []Data) *ContinuationResponse {
	return &ContinuationResponse{tokens: data}
}

func (*ContinuationResponse) isResponse() {}

// Data returns the optional prompt data.
func (resp *ContinuationResponse) Data() []Data {
	if len(resp.tokens) < 2 {
		return nil
	}
	return resp.tokens[1:]
}

// Text returns the prompt text.
func (resp *ContinuationResponse) Text() string {
	return joinData(resp.Data())
}

// parseCode extracts a "[CODE args]" response code from the start of data.
// Since brackets are not structural tokens, the code is spread over atoms
// such as "[UIDVALIDITY" and "42]". The number of consumed nodes is returned.
func parseCode(data []Data) (code ResponseCode, args []Data, n int) {
	first, ok := List(data).At(0).(Atom)
	if !ok || !strings.HasPrefix(string(first), "[") {
		return "", nil, 0
	}

	name := strings.TrimPrefix(string(first), "[")
	if strings.HasSuffix(name, "]") {
		return ResponseCode(strings.ToUpper(strings.TrimSuffix(name, "]"))), nil, 1
	}

	for i := 1; i < len(data); i++ {
		if a, ok := data[i].(Atom); ok && strings.HasSuffix(string(a), "]") {
			last := strings.TrimSuffix(string(a), "]")
			args = append(args, data[1:i]...)
			if last != "" {
				args = append(args, Atom(last))
			}
			return ResponseCode(strings.ToUpper(name)), args, i + 1
		}
	}
	// Unterminated response code: treat the whole line as text.
	return "", nil, 0
}

// StatusResponse is a generic status response.
//
// See RFC 3501 section 7.1.
type StatusResponse struct {
	Type StatusResponseType
	Code ResponseCode
	Text string
}

// Error is an IMAP error caused by a NO, BAD or BYE status response.
type Error struct {
	Type StatusResponseType
	Code ResponseCode
	Text string
	// Raw is the complete response line, as received.
	Raw string
}

var _ error = (*Error)(nil)

// Error implements the error interface.
func (err *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "imap: %v", err.Type)
	if err.Code != "" {
		fmt.Fprintf(&sb, " [%v]", err.Code)
	}
	text := err.Text
	if text == "" {
		text = "<unknown>"
	}
	fmt.Fprintf(&sb, " %v", text)
	return sb.String()
}

// StatusError builds an error from a tagged response.
func StatusError(resp *TaggedResponse) *Error {
	code, _ := resp.Code()
	return &Error{
		Type: resp.Status(),
		Code: code,
		Text: resp.Text(),
		Raw:  resp.String(),
	}
}

// ByeError builds an error from an untagged BYE response.
func ByeError(resp *UntaggedResponse) *Error {
	code, _ := resp.Code()
	return &Error{
		Type: StatusResponseTypeBye,
		Code: code,
		Text: resp.Text(),
		Raw:  resp.String(),
	}
}
