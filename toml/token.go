package toml

import "fmt"

type tokenType int

const (
	tokenError tokenType = iota
	tokenEOF
	tokenNewline
	tokenIdent  // bare key
	tokenString // "quoted"
	tokenInteger
	tokenFloat
	tokenBool
	tokenEqual    // =
	tokenDot      // .
	tokenComma    // ,
	tokenLBracket // [
	tokenRBracket // ]
)

type token struct {
	typ     tokenType
	literal string
	line    int
}

func (t token) String() string {
	switch t.typ {
	case tokenEOF:
		return "EOF"
	case tokenNewline:
		return "newline"
	case tokenError:
		return fmt.Sprintf("error(%s)", t.literal)
	}
	if len(t.literal) > 20 {
		return fmt.Sprintf("%q...", t.literal[:20])
	}
	return fmt.Sprintf("%q", t.literal)
}

// SyntaxError describes malformed input with the line it was found on
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("toml: line %d: %s", e.Line, e.Msg)
}
