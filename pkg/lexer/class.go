/*
Token classes and binding ranks.

Ranks order operator groups from the weakest binding (closest to the root
of a parse tree) to the tightest:

	;  <  ,  <  :  <  = += ...  <  || or  <  && and  <  not !
	   <  == != ~=  <  < <= > >=  <  + -  <  * / %  <  .

Atoms carry RankAtom and bind tighter than every operator. Open brackets
carry RankScope so no operator climbs past them.
*/
package lexer

import (
	"math"

	"github.com/walteh/anyswap/pkg/position"
)

// Class is the lexical role of a token.
type Class int

const (
	// ClassAtom is an identifier, number, string literal or angle literal.
	ClassAtom Class = iota
	// ClassOpen is a bracket opener.
	ClassOpen
	// ClassClose is a bracket closer.
	ClassClose
	// ClassPrefix is a keyword opening an implicit unary scope.
	ClassPrefix
	// ClassInfix is a binary operator or separator.
	ClassInfix
)

func (c Class) String() string {
	switch c {
	case ClassAtom:
		return "atom"
	case ClassOpen:
		return "open"
	case ClassClose:
		return "close"
	case ClassPrefix:
		return "prefix"
	case ClassInfix:
		return "infix"
	default:
		return "unknown"
	}
}

// Rank is a binding strength. Lower ranks sit closer to the root.
type Rank int

const (
	RankStatement Rank = iota + 1
	RankList
	RankKeyValue
	RankAssign
	RankOr
	RankAnd
	RankNot
	RankEquality
	RankRelational
	RankAdditive
	RankMultiplicative
	RankMember
)

const (
	// RankRoot belongs to the synthetic root: it binds nothing and never closes.
	RankRoot Rank = math.MinInt32
	// RankScope belongs to a bracket still waiting for its closer.
	RankScope Rank = 0
	// RankAtom belongs to atoms and finished bracket groups.
	RankAtom Rank = math.MaxInt32
)

var rankNames = map[Rank]string{
	RankStatement:      "statement",
	RankList:           "list",
	RankKeyValue:       "key_value",
	RankAssign:         "assign",
	RankOr:             "or",
	RankAnd:            "and",
	RankNot:            "not",
	RankEquality:       "equality",
	RankRelational:     "relational",
	RankAdditive:       "additive",
	RankMultiplicative: "multiplicative",
	RankMember:         "member",
}

func (r Rank) String() string {
	switch r {
	case RankRoot:
		return "root"
	case RankScope:
		return "scope"
	case RankAtom:
		return "atom"
	}
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsOperator reports whether r is one of the twelve operator groups.
func (r Rank) IsOperator() bool {
	return r >= RankStatement && r <= RankMember
}

// RankByName resolves a group name such as "additive" to its rank.
func RankByName(name string) (Rank, bool) {
	for rank, n := range rankNames {
		if n == name {
			return rank, true
		}
	}
	return 0, false
}

// Token is one classified lexeme of a line.
type Token struct {
	Text  string
	Class Class
	Rank  Rank
	Range position.Range
	// Pair is the closer an opener waits for, or the opener a closer matches.
	Pair  string
	Fixed Fixed
}

// Fixed limits what a swap may do around an operator.
type Fixed uint8

const (
	// FixedOperands keeps the operands of the operator in place, as for
	// "=" or ".".
	FixedOperands Fixed = 1 << iota
	// FixedWhole keeps the operator's expression from being one side of a
	// swap, as for "," or ";".
	FixedWhole
)

func (f Fixed) Operands() bool {
	return f&FixedOperands != 0
}

func (f Fixed) Whole() bool {
	return f&FixedWhole != 0
}

func (t Token) String() string {
	return t.Text + "@" + t.Range.String()
}
