package imapwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/directorytree/go-imapengine"
)

// Parser reads responses from a Stream.
type Parser struct {
	tok     *Tokenizer
	pending bool
}

// NewParser creates a parser reading from s.
func NewParser(s Stream) *Parser {
	return &Parser{tok: NewTokenizer(s)}
}

// Reset discards any buffered state and binds the parser to s. It must be
// called when the underlying connection is replaced, e.g. after STARTTLS.
func (p *Parser) Reset(s Stream) {
	p.tok.Reset(s)
	p.pending = false
}

// InResponse returns true if part of a response was consumed by a failed
// call to Next. The stream can't be read any further in that case.
func (p *Parser) InResponse() bool {
	return p.pending || p.tok.Buffered() > 0
}

// Next reads exactly one response. Blank lines are skipped. io.EOF is
// returned when the stream ends between two responses.
func (p *Parser) Next() (imap.Response, error) {
	var first Token
	for {
		tok, err := p.tok.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenEOL {
			first = tok
			break
		}
	}
	p.pending = true

	if first.Kind != TokenAtom {
		return nil, imap.NewParseError(fmt.Sprintf("expected response tag, got %v", first))
	}

	data := []imap.Data{imap.Atom(first.Value)}
	rest, err := p.line()
	if err != nil {
		return nil, err
	}
	data = append(data, rest...)
	p.pending = false

	switch string(first.Value) {
	case "*":
		return imap.NewUntaggedResponse(data), nil
	case "+":
		return imap.NewContinuationResponse(data), nil
	default:
		return imap.NewTaggedResponse(data), nil
	}
}

// line parses data nodes until the end of the line. A stream ending right
// after the last node terminates the line.
func (p *Parser) line() ([]imap.Data, error) {
	var data []imap.Data
	for {
		tok, err := p.tok.Next()
		if errors.Is(err, io.EOF) {
			return data, nil
		} else if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenEOL:
			return data, nil
		case TokenListClose:
			// Stray closing parens show up in human-readable text.
			data = append(data, imap.Atom(")"))
		default:
			d, err := p.node(tok)
			if err != nil {
				return nil, err
			}
			data = append(data, d)
		}
	}
}

func (p *Parser) node(tok Token) (imap.Data, error) {
	switch tok.Kind {
	case TokenAtom:
		return imap.Atom(tok.Value), nil
	case TokenQuoted:
		return imap.QuotedString(tok.Value), nil
	case TokenLiteral:
		return imap.NewLiteral(tok.Value), nil
	case TokenListOpen:
		return p.list()
	default:
		return nil, imap.NewParseError(fmt.Sprintf("unexpected token %v", tok))
	}
}

// list parses list children until the matching ListClose. Lists only span
// lines through literals: a line break is accepted right after a literal.
func (p *Parser) list() (imap.List, error) {
	l := imap.List{}
	afterLiteral := false
	for {
		tok, err := p.tok.Next()
		if errors.Is(err, io.EOF) {
			return nil, imap.NewParseError("unterminated list")
		} else if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokenListClose:
			return l, nil
		case TokenEOL:
			if !afterLiteral {
				return nil, imap.NewParseError("unterminated list")
			}
			afterLiteral = false
			continue
		}

		d, err := p.node(tok)
		if err != nil {
			return nil, err
		}
		l = append(l, d)
		afterLiteral = tok.Kind == TokenLiteral
	}
}
