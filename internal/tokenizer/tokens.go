package tokenizer

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a Token.
type Kind uint8

// Token kinds emitted by the tokenizer.
const (
	KindEOF Kind = iota
	KindNewline
	KindTab
	KindSpace
	KindLeftParen
	KindRightParen
	KindLeftBracket
	KindRightBracket
	KindLeftBrace
	KindRightBrace
	KindLeftAngleBracket
	KindRightAngleBracket
	KindCaret
	KindColon
	KindComma
	KindDot
	KindUnderscore
	KindDash
	KindSlash
	KindComment
	KindUpperSymbol
	KindLowerSymbol
	KindString
	KindSingleQuotedString
	KindFloat
	KindInteger
	KindChar
	KindBoolean
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindNewline:
		return "Newline"
	case KindTab:
		return "Tab"
	case KindSpace:
		return "Space"
	case KindLeftParen:
		return "LeftParen"
	case KindRightParen:
		return "RightParen"
	case KindLeftBracket:
		return "LeftBracket"
	case KindRightBracket:
		return "RightBracket"
	case KindLeftBrace:
		return "LeftBrace"
	case KindRightBrace:
		return "RightBrace"
	case KindLeftAngleBracket:
		return "LeftAngleBracket"
	case KindRightAngleBracket:
		return "RightAngleBracket"
	case KindCaret:
		return "Caret"
	case KindColon:
		return "Colon"
	case KindComma:
		return "Comma"
	case KindDot:
		return "Dot"
	case KindUnderscore:
		return "Underscore"
	case KindDash:
		return "Dash"
	case KindSlash:
		return "Slash"
	case KindComment:
		return "Comment"
	case KindUpperSymbol:
		return "UpperSymbol"
	case KindLowerSymbol:
		return "LowerSymbol"
	case KindString:
		return "String"
	case KindSingleQuotedString:
		return "SingleQuotedString"
	case KindFloat:
		return "Float"
	case KindInteger:
		return "Integer"
	case KindChar:
		return "Char"
	case KindBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit. Kind selects which value field, if any,
// carries the payload: Str for UpperSymbol, LowerSymbol, String and
// SingleQuotedString; Int for Integer; Float for Float; Char for Char;
// Bool for Boolean. All other kinds carry no value.
type Token struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Char  byte
	Bool  bool
}

// String returns a short description of the token, including its
// carried value where one exists.
func (t Token) String() string {
	switch t.Kind {
	case KindUpperSymbol, KindLowerSymbol:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Str)
	case KindString, KindSingleQuotedString:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Str)
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case KindFloat:
		return fmt.Sprintf("Float(%s)", strconv.FormatFloat(t.Float, 'g', -1, 64))
	case KindChar:
		return fmt.Sprintf("Char(%c)", t.Char)
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", t.Bool)
	default:
		return t.Kind.String()
	}
}

// Equal reports whether two tokens have the same kind and the same
// carried value. Kinds without a value compare by kind alone.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindUpperSymbol, KindLowerSymbol, KindString, KindSingleQuotedString:
		return t.Str == other.Str
	case KindInteger:
		return t.Int == other.Int
	case KindFloat:
		return t.Float == other.Float
	case KindChar:
		return t.Char == other.Char
	case KindBoolean:
		return t.Bool == other.Bool
	default:
		return true
	}
}

// Location is a position in a source string.
type Location struct {
	Line     int // 1-based
	Column   int // 0-based
	Position int // byte offset
	File     string
}

// String returns file:line:column.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// SourceToken pairs a token with the location of its first byte.
type SourceToken struct {
	Token    Token
	Location Location
}
