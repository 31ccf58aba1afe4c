package imapwire

import (
	"fmt"
	"strconv"
)

// TokenKind is the kind of a lexical token.
type TokenKind int

const (
	TokenAtom TokenKind = iota + 1
	TokenQuoted
	TokenLiteral
	TokenListOpen
	TokenListClose
	// TokenEOL marks the end of a line (CRLF).
	TokenEOL
)

func (kind TokenKind) String() string {
	switch kind {
	case TokenAtom:
		return "atom"
	case TokenQuoted:
		return "quoted"
	case TokenLiteral:
		return "literal"
	case TokenListOpen:
		return "list-open"
	case TokenListClose:
		return "list-close"
	case TokenEOL:
		return "eol"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(kind))
	}
}

// Token is a lexical token.
//
// For atoms, Value is the atom text. For quoted strings it is the unescaped
// string. For literals it is the raw payload.
type Token struct {
	Kind  TokenKind
	Value []byte
}

func (tok Token) String() string {
	switch tok.Kind {
	case TokenAtom:
		return string(tok.Value)
	case TokenQuoted:
		return strconv.Quote(string(tok.Value))
	case TokenLiteral:
		return "{" + strconv.Itoa(len(tok.Value)) + "}"
	case TokenListOpen:
		return "("
	case TokenListClose:
		return ")"
	case TokenEOL:
		return "CRLF"
	default:
		return tok.Kind.String()
	}
}
