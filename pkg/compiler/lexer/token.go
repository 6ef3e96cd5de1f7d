package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindIllegal Kind = iota
	KindEOF

	// Identifiers + literals
	KindIdent // add, foobar, x, y
	KindInt   // 1343456

	// Operators
	KindAssign   // =
	KindPlus     // +
	KindMinus    // -
	KindBang     // !
	KindAsterisk // *
	KindSlash    // /
	KindLT       // <
	KindGT       // >
	KindEq       // ==
	KindNotEq    // !=

	// Delimiters
	KindComma     // ,
	KindSemicolon // ;
	KindLParen    // (
	KindRParen    // )
	KindLBrace    // {
	KindRBrace    // }

	// Keywords
	KindFunction // fn
	KindLet
	KindTrue
	KindFalse
	KindIf
	KindElse
	KindReturn
)

var kindNames = [...]string{
	KindIllegal:   "Illegal",
	KindEOF:       "Eof",
	KindIdent:     "Ident",
	KindInt:       "Int",
	KindAssign:    "Assign",
	KindPlus:      "Plus",
	KindMinus:     "Minus",
	KindBang:      "Bang",
	KindAsterisk:  "Asterisk",
	KindSlash:     "Slash",
	KindLT:        "Lt",
	KindGT:        "Gt",
	KindEq:        "Eq",
	KindNotEq:     "NotEq",
	KindComma:     "Comma",
	KindSemicolon: "Semicolon",
	KindLParen:    "LParen",
	KindRParen:    "RParen",
	KindLBrace:    "LBrace",
	KindRBrace:    "RBrace",
	KindFunction:  "Function",
	KindLet:       "Let",
	KindTrue:      "True",
	KindFalse:     "False",
	KindIf:        "If",
	KindElse:      "Else",
	KindReturn:    "Return",
}

// String returns the name used for the kind in parser diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var keywords = map[string]Kind{
	"fn":     KindFunction,
	"let":    KindLet,
	"true":   KindTrue,
	"false":  KindFalse,
	"if":     KindIf,
	"else":   KindElse,
	"return": KindReturn,
}

// LookupIdent maps an identifier-shaped literal to its keyword kind, or KindIdent.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdent
}

// Token represents a lexical unit. Literal is the exact source slice; Line and
// Column are 1-based and point at the first character of the token.
type Token struct {
	Kind    Kind
	Literal string
	Line    uint32
	Column  uint32
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}
