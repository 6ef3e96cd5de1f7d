package lexer

// Precedence is the binding power of an operator. Higher binds tighter.
type Precedence uint8

const (
	Lowest Precedence = iota + 1
	Equals            // ==
	LessGreater       // > or <
	Sum               // +
	Product           // *
	Prefix            // -X or !X
	Call              // myFunction(X)
)

var precedences = map[Kind]Precedence{
	KindEq:       Equals,
	KindNotEq:    Equals,
	KindLT:       LessGreater,
	KindGT:       LessGreater,
	KindPlus:     Sum,
	KindMinus:    Sum,
	KindAsterisk: Product,
	KindSlash:    Product,
	KindLParen:   Call,
}

// PrecedenceOf returns the infix binding power of k. Kinds that never act as
// infix operators bind at Lowest.
func PrecedenceOf(k Kind) Precedence {
	if p, ok := precedences[k]; ok {
		return p
	}
	return Lowest
}
