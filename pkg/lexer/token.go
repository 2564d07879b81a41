package lexer

import (
	"fmt"

	"fractus/interpreter-go/pkg/fraction"
)

// Kind identifies a token category.
type Kind int

const (
	Program Kind = iota
	Var
	Begin
	End
	Return
	If
	Then
	Else
	Do
	While
	VoidType
	StringType
	IntegerType
	FractionType
	BooleanType

	Identifier
	IntConst
	FractionConst
	StringConst
	Semicolon
	Colon
	Comma
	Period
	BraceOpen
	BraceClose
	ParenOpen
	ParenClose
	Assign
	Not
	Plus
	Minus
	Mult
	Div
	Eq
	Neq
	Lt
	Gt
	Le
	Ge
	Or
	And
	EOF
	Other
)

var kindNames = map[Kind]string{
	Program:       "PROGRAM",
	Var:           "VAR",
	Begin:         "BEGIN",
	End:           "END",
	Return:        "RETURN",
	If:            "IF",
	Then:          "THEN",
	Else:          "ELSE",
	Do:            "DO",
	While:         "WHILE",
	VoidType:      "VOIDTYPE",
	StringType:    "STRINGTYPE",
	IntegerType:   "INTEGERTYPE",
	FractionType:  "FRACTIONTYPE",
	BooleanType:   "BOOLEANTYPE",
	Identifier:    "IDENTIFIER",
	IntConst:      "INTCONST",
	FractionConst: "FRACTCONST",
	StringConst:   "STRINGCONST",
	Semicolon:     "SEMICOLON",
	Colon:         "COLON",
	Comma:         "COMMA",
	Period:        "PERIOD",
	BraceOpen:     "BRACEOPEN",
	BraceClose:    "BRACECLOSE",
	ParenOpen:     "PARENOPEN",
	ParenClose:    "PARENCLOSE",
	Assign:        "EQUALSIGN",
	Not:           "NOTSIGN",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Mult:          "MULTSIGN",
	Div:           "DIVSIGN",
	Eq:            "EQOP",
	Neq:           "NEQOP",
	Lt:            "LTOP",
	Gt:            "GTOP",
	Le:            "LEOP",
	Ge:            "GEOP",
	Or:            "OROP",
	And:           "ANDOP",
	EOF:           "END_OF_FILE",
	Other:         "OTHERS",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// IsVarType reports whether k names a type usable for variables and parameters.
func (k Kind) IsVarType() bool {
	switch k {
	case StringType, IntegerType, FractionType, BooleanType:
		return true
	default:
		return false
	}
}

// IsReturnType reports whether k can start a procedure declaration.
func (k Kind) IsReturnType() bool {
	return k == VoidType || k.IsVarType()
}

// Keywords maps reserved words to their kinds.
var Keywords = map[string]Kind{
	"program":  Program,
	"var":      Var,
	"begin":    Begin,
	"end":      End,
	"return":   Return,
	"if":       If,
	"then":     Then,
	"else":     Else,
	"do":       Do,
	"while":    While,
	"or":       Or,
	"and":      And,
	"void":     VoidType,
	"string":   StringType,
	"integer":  IntegerType,
	"fraction": FractionType,
	"boolean":  BooleanType,
}

// Token is one lexical unit. Only the payload field matching Kind is set:
// Int for IntConst, Fraction for FractionConst, Text for Identifier,
// StringConst and keywords (the spelled word).
type Token struct {
	Kind     Kind
	Line     int
	Int      int64
	Fraction fraction.Fraction
	Text     string
}

// String renders the token the way the token dump prints it.
func (t Token) String() string {
	switch t.Kind {
	case IntConst:
		return fmt.Sprintf("%s: %d", t.Kind, t.Int)
	case FractionConst:
		return fmt.Sprintf("%s: %s", t.Kind, t.Fraction)
	case Identifier, StringConst:
		return fmt.Sprintf("%s: %s", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
