package token

import (
	"fmt"
	"strings"
)

// Type identifies the lexical class of a token.
type Type int

// Channel separates code tokens from trivia. Comment tokens are produced on
// ChannelComment so that the parser can ignore them while suppression scanning
// and documentation tooling can still see them.
type Channel int

const (
	ChannelCode Channel = iota
	ChannelComment
)

const (
	ILLEGAL Type = iota
	EOF
	COMMENT

	// Identifiers and literals
	IDENT           // MyFunction, Record name, ...
	USER_VARIABLE   // &buffer
	SYSTEM_VARIABLE // %UserId, %This, %Super
	INTEGER         // 42
	DECIMAL         // 3.14
	STRING          // "plain string" or 'plain string'

	// Interpolated string parts. The lexer lowers $"a {&b} c" into
	// STRING_START STRING_FRAGMENT INTERP_START <expr tokens> INTERP_END
	// STRING_FRAGMENT STRING_END.
	STRING_START
	STRING_FRAGMENT
	INTERP_START
	INTERP_END
	STRING_END
	UNTERMINATED_STRING

	// Operators
	EQ      // = (assignment or equality, disambiguated by the parser)
	NEQ     // <> or !=
	LT      // <
	LE      // <=
	GT      // >
	GE      // >=
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	POWER   // **
	PIPE    // | string concatenation
	AT      // @ dynamic reference
	PLUS_EQ // += shorthand assignment
	PIPE_EQ // |= shorthand assignment
	MINUS_EQ

	// Delimiters
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	DOT
	COLON

	// Compiler directives
	DIRECTIVE_IF     // #If
	DIRECTIVE_THEN   // #Then
	DIRECTIVE_ELSE   // #Else
	DIRECTIVE_END_IF // #End-If
	DIRECTIVE_TOOLSREL
	DIRECTIVE_VERSION // dotted release literal inside a directive, e.g. 8.54.27

	keywordStart
	AND
	OR
	NOT
	IF
	THEN
	ELSE
	END_IF
	FOR
	TO
	STEP
	END_FOR
	WHILE
	END_WHILE
	REPEAT
	UNTIL
	EVALUATE
	WHEN
	WHEN_OTHER
	END_EVALUATE
	TRY
	CATCH
	END_TRY
	THROW
	RETURN
	BREAK
	CONTINUE
	EXIT
	ERROR
	WARNING
	LOCAL
	GLOBAL
	COMPONENT
	CONSTANT
	INSTANCE
	PROPERTY
	GET
	SET
	END_GET
	END_SET
	READONLY
	ABSTRACT
	PRIVATE
	PROTECTED
	METHOD
	END_METHOD
	FUNCTION
	END_FUNCTION
	PEOPLECODE
	DECLARE
	LIBRARY
	CLASS
	END_CLASS
	INTERFACE
	END_INTERFACE
	EXTENDS
	IMPLEMENTS
	IMPORT
	CREATE
	AS
	REF
	OUT
	VALUE
	RETURNS
	NULL
	TRUE
	FALSE
	keywordEnd
)

var typeNames = map[Type]string{
	ILLEGAL:             "ILLEGAL",
	EOF:                 "EOF",
	COMMENT:             "COMMENT",
	IDENT:               "IDENT",
	USER_VARIABLE:       "USER_VARIABLE",
	SYSTEM_VARIABLE:     "SYSTEM_VARIABLE",
	INTEGER:             "INTEGER",
	DECIMAL:             "DECIMAL",
	STRING:              "STRING",
	STRING_START:        "STRING_START",
	STRING_FRAGMENT:     "STRING_FRAGMENT",
	INTERP_START:        "INTERP_START",
	INTERP_END:          "INTERP_END",
	STRING_END:          "STRING_END",
	UNTERMINATED_STRING: "UNTERMINATED_STRING",
	EQ:                  "=",
	NEQ:                 "<>",
	LT:                  "<",
	LE:                  "<=",
	GT:                  ">",
	GE:                  ">=",
	PLUS:                "+",
	MINUS:               "-",
	STAR:                "*",
	SLASH:               "/",
	POWER:               "**",
	PIPE:                "|",
	AT:                  "@",
	PLUS_EQ:             "+=",
	PIPE_EQ:             "|=",
	MINUS_EQ:            "-=",
	LPAREN:              "(",
	RPAREN:              ")",
	LBRACKET:            "[",
	RBRACKET:            "]",
	COMMA:               ",",
	SEMICOLON:           ";",
	DOT:                 ".",
	COLON:               ":",
	DIRECTIVE_IF:        "#If",
	DIRECTIVE_THEN:      "#Then",
	DIRECTIVE_ELSE:      "#Else",
	DIRECTIVE_END_IF:    "#End-If",
	DIRECTIVE_TOOLSREL:  "#ToolsRel",
	DIRECTIVE_VERSION:   "DIRECTIVE_VERSION",
	AND:                 "And",
	OR:                  "Or",
	NOT:                 "Not",
	IF:                  "If",
	THEN:                "Then",
	ELSE:                "Else",
	END_IF:              "End-If",
	FOR:                 "For",
	TO:                  "To",
	STEP:                "Step",
	END_FOR:             "End-For",
	WHILE:               "While",
	END_WHILE:           "End-While",
	REPEAT:              "Repeat",
	UNTIL:               "Until",
	EVALUATE:            "Evaluate",
	WHEN:                "When",
	WHEN_OTHER:          "When-Other",
	END_EVALUATE:        "End-Evaluate",
	TRY:                 "Try",
	CATCH:               "Catch",
	END_TRY:             "End-Try",
	THROW:               "Throw",
	RETURN:              "Return",
	BREAK:               "Break",
	CONTINUE:            "Continue",
	EXIT:                "Exit",
	ERROR:               "Error",
	WARNING:             "Warning",
	LOCAL:               "Local",
	GLOBAL:              "Global",
	COMPONENT:           "Component",
	CONSTANT:            "Constant",
	INSTANCE:            "Instance",
	PROPERTY:            "Property",
	GET:                 "Get",
	SET:                 "Set",
	END_GET:             "End-Get",
	END_SET:             "End-Set",
	READONLY:            "ReadOnly",
	ABSTRACT:            "Abstract",
	PRIVATE:             "Private",
	PROTECTED:           "Protected",
	METHOD:              "Method",
	END_METHOD:          "End-Method",
	FUNCTION:            "Function",
	END_FUNCTION:        "End-Function",
	PEOPLECODE:          "PeopleCode",
	DECLARE:             "Declare",
	LIBRARY:             "Library",
	CLASS:               "Class",
	END_CLASS:           "End-Class",
	INTERFACE:           "Interface",
	END_INTERFACE:       "End-Interface",
	EXTENDS:             "Extends",
	IMPLEMENTS:          "Implements",
	IMPORT:              "Import",
	CREATE:              "Create",
	AS:                  "As",
	REF:                 "Ref",
	OUT:                 "Out",
	VALUE:               "Value",
	RETURNS:             "Returns",
	NULL:                "Null",
	TRUE:                "True",
	FALSE:               "False",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool { return t > keywordStart && t < keywordEnd }

var keywords = func() map[string]Type {
	m := make(map[string]Type)
	for t := keywordStart + 1; t < keywordEnd; t++ {
		m[strings.ToLower(typeNames[t])] = t
	}
	return m
}()

// LookupIdent maps an identifier to its keyword type, if any. PeopleCode
// keywords are case-insensitive.
func LookupIdent(ident string) Type {
	if t, ok := keywords[strings.ToLower(ident)]; ok {
		return t
	}
	return IDENT
}

// Position is a point in the source text. Line and Column are 1-based;
// Offset is the raw byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers a contiguous region of source text. Every token, AST node and
// diagnostic carries one, and spans stay valid through lexer and parser
// recovery so editor tooling can underline precisely.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Cover returns the smallest span containing both a and b.
func Cover(a, b Span) Span {
	out := a
	if b.Start.Offset < a.Start.Offset || a.Start == (Position{}) {
		out.Start = b.Start
	}
	if b.End.Offset > a.End.Offset {
		out.End = b.End
	}
	return out
}

// Token is one lexical unit. Immutable once produced.
type Token struct {
	Type    Type
	Lexeme  string
	Span    Span
	Channel Channel
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Lexeme, t.Span.Start)
}
