// Package lexer converts PeopleCode source text into a token stream.
//
// The lexer is a small state machine: Normal code, interpolated-string text,
// interpolation expression, and compiler directive. The load-bearing
// invariant is end-of-line recovery: an unterminated string or interpolation
// emits an explicit UNTERMINATED_STRING token, resets the state to Normal,
// and lexing of the following lines proceeds exactly as if the broken line
// had not existed. The lexer never fails; malformed input always becomes a
// recovery token plus a diagnostic.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

type mode int

const (
	modeNormal mode = iota
	modeInterpString
	modeInterpExpr
	modeDirective
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	mode       mode
	braceDepth int // open braces inside the current interpolation expression

	tokens []token.Token
	errors []*diagnostics.DiagnosticError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token stream plus the
// lexical diagnostics. It never fails.
func Tokenize(input string) (*token.Stream, []*diagnostics.DiagnosticError) {
	l := New(input)
	l.run()
	return token.NewStream(l.tokens), l.errors
}

func (l *Lexer) run() {
	for {
		switch l.mode {
		case modeInterpString:
			l.scanInterpolatedText()
		default:
			if !l.scanToken() {
				return
			}
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) emit(t token.Type, lexeme string, start token.Position) {
	l.emitOn(t, lexeme, start, token.ChannelCode)
}

func (l *Lexer) emitOn(t token.Type, lexeme string, start token.Position, ch token.Channel) {
	end := token.Position{Line: l.line, Column: l.column, Offset: l.position}
	l.tokens = append(l.tokens, token.Token{
		Type:    t,
		Lexeme:  lexeme,
		Span:    token.Span{Start: start, End: end},
		Channel: ch,
	})
}

func (l *Lexer) addError(code diagnostics.Code, start token.Position, msg string) {
	span := token.Span{Start: start, End: l.pos()}
	l.errors = append(l.errors, diagnostics.NewError(code, span, msg))
}

// scanToken scans one construct in Normal, InterpolationExpression or
// CompilerDirective mode and returns false once EOF has been emitted.
func (l *Lexer) scanToken() bool {
	l.skipSpaces()

	start := l.pos()

	switch {
	case l.ch == 0:
		if l.mode == modeInterpExpr {
			l.recoverUnterminated(start)
			return true
		}
		l.emit(token.EOF, "", start)
		return false
	case l.ch == '\n':
		if l.mode == modeInterpExpr {
			l.recoverUnterminated(start)
			return true
		}
		if l.mode == modeDirective {
			// A directive never spans lines; a missing #Then must not
			// leak version lexing into the next line.
			l.mode = modeNormal
		}
		// Newlines are plain whitespace outside interpolations.
		l.readChar()
		return true
	case l.ch == '/' && l.peekChar() == '*':
		l.scanBlockComment(start)
		return true
	case l.ch == '<' && l.peekChar() == '*':
		l.scanNestableComment(start)
		return true
	case l.ch == '$' && l.peekChar() == '"':
		l.readChar()
		l.readChar()
		l.emit(token.STRING_START, `$"`, start)
		l.mode = modeInterpString
		return true
	case l.ch == '"' || l.ch == '\'':
		l.scanString(l.ch, start)
		return true
	case l.ch == '#':
		l.scanDirectiveWord(start)
		return true
	case isDigit(l.ch):
		l.scanNumber(start)
		return true
	case isIdentStart(l.ch):
		l.scanIdentifier(start)
		return true
	case l.ch == '&' && isIdentStart(l.peekChar()):
		l.readChar()
		name := l.readIdentifier()
		l.emit(token.USER_VARIABLE, "&"+name, start)
		return true
	case l.ch == '%' && isIdentStart(l.peekChar()):
		l.readChar()
		name := l.readIdentifier()
		l.emit(token.SYSTEM_VARIABLE, "%"+name, start)
		return true
	}

	l.scanOperator(start)
	return true
}

// skipSpaces skips blanks. Newlines are only skipped in Normal and Directive
// modes; an interpolation expression must see them for EOL recovery.
func (l *Lexer) skipSpaces() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			if l.mode == modeInterpExpr || l.mode == modeDirective {
				return
			}
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) scanOperator(start token.Position) {
	ch := l.ch
	switch ch {
	case '=':
		l.readChar()
		l.emit(token.EQ, "=", start)
	case '<':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			l.emit(token.LE, "<=", start)
		case '>':
			l.readChar()
			l.emit(token.NEQ, "<>", start)
		default:
			l.emit(token.LT, "<", start)
		}
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.emit(token.GE, ">=", start)
		} else {
			l.emit(token.GT, ">", start)
		}
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.emit(token.NEQ, "!=", start)
		} else {
			l.addError(diagnostics.ErrL002, start, "unexpected character '!'")
			l.emit(token.ILLEGAL, "!", start)
		}
	case '+':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.emit(token.PLUS_EQ, "+=", start)
		} else {
			l.emit(token.PLUS, "+", start)
		}
	case '-':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.emit(token.MINUS_EQ, "-=", start)
		} else {
			l.emit(token.MINUS, "-", start)
		}
	case '*':
		l.readChar()
		if l.ch == '*' {
			l.readChar()
			l.emit(token.POWER, "**", start)
		} else {
			l.emit(token.STAR, "*", start)
		}
	case '/':
		l.readChar()
		l.emit(token.SLASH, "/", start)
	case '|':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.emit(token.PIPE_EQ, "|=", start)
		} else {
			l.emit(token.PIPE, "|", start)
		}
	case '(':
		l.readChar()
		l.emit(token.LPAREN, "(", start)
	case ')':
		l.readChar()
		l.emit(token.RPAREN, ")", start)
	case '[':
		l.readChar()
		l.emit(token.LBRACKET, "[", start)
	case ']':
		l.readChar()
		l.emit(token.RBRACKET, "]", start)
	case ',':
		l.readChar()
		l.emit(token.COMMA, ",", start)
	case ';':
		l.readChar()
		l.emit(token.SEMICOLON, ";", start)
	case '.':
		l.readChar()
		l.emit(token.DOT, ".", start)
	case ':':
		l.readChar()
		l.emit(token.COLON, ":", start)
	case '@':
		l.readChar()
		l.emit(token.AT, "@", start)
	case '{':
		l.readChar()
		if l.mode == modeInterpExpr {
			l.braceDepth++
		}
		l.emit(token.ILLEGAL, "{", start)
	case '}':
		l.readChar()
		if l.mode == modeInterpExpr {
			if l.braceDepth == 0 {
				l.emit(token.INTERP_END, "}", start)
				l.mode = modeInterpString
				return
			}
			l.braceDepth--
		}
		l.emit(token.ILLEGAL, "}", start)
	default:
		l.readChar()
		l.addError(diagnostics.ErrL002, start, "unexpected character "+string(ch))
		l.emit(token.ILLEGAL, string(ch), start)
	}
}

func (l *Lexer) readIdentifier() string {
	from := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[from:l.position]
}

func (l *Lexer) scanIdentifier(start token.Position) {
	word := l.readIdentifier()

	// Hyphenated keywords: End-If, When-Other, ... The hyphen only joins
	// when the first word alone is a joiner and the combined word is a
	// known keyword.
	lower := strings.ToLower(word)
	if (lower == "end" || lower == "when") && l.ch == '-' && isIdentStart(l.peekChar()) {
		mark := l.position
		markRead := l.readPosition
		markCh := l.ch
		markCol := l.column
		l.readChar()
		second := l.readIdentifier()
		combined := word + "-" + second
		if token.LookupIdent(combined).IsKeyword() {
			word = combined
		} else {
			l.position = mark
			l.readPosition = markRead
			l.ch = markCh
			l.column = markCol
		}
	}

	typ := token.LookupIdent(word)
	if lower == "rem" {
		// rem comments run to the terminating semicolon.
		from := start.Offset
		for l.ch != ';' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == ';' {
			l.readChar()
		}
		l.emitOn(token.COMMENT, l.input[from:l.position], start, token.ChannelComment)
		return
	}
	l.emit(typ, word, start)
}

func (l *Lexer) scanNumber(start token.Position) {
	from := l.position
	dots := 0
	for isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
		if l.ch == '.' {
			if l.mode != modeDirective && dots == 1 {
				break
			}
			dots++
		}
		l.readChar()
	}
	raw := l.input[from:l.position]
	switch {
	case l.mode == modeDirective && dots >= 1:
		l.emit(token.DIRECTIVE_VERSION, raw, start)
	case dots == 1:
		l.emit(token.DECIMAL, raw, start)
	default:
		l.emit(token.INTEGER, raw, start)
	}
}

// scanString scans a plain quoted string. Doubled delimiters are escapes.
// Reaching end of line or end of input emits UNTERMINATED_STRING and leaves
// the mode untouched (Normal stays Normal, an interpolation expression keeps
// its own recovery path).
func (l *Lexer) scanString(quote rune, start token.Position) {
	l.readChar() // opening quote
	var sb strings.Builder
	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			l.addError(diagnostics.ErrL001, start, "unterminated string literal")
			l.emit(token.UNTERMINATED_STRING, sb.String(), start)
			if l.mode == modeInterpExpr {
				// The enclosing interpolation is broken too; reset so the
				// next line lexes cleanly.
				l.mode = modeNormal
				l.braceDepth = 0
			}
			return
		case l.ch == quote:
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			l.emit(token.STRING, sb.String(), start)
			return
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// scanInterpolatedText accumulates literal text inside $"...". It flushes a
// STRING_FRAGMENT before every state change so the parser sees the exact
// part sequence.
func (l *Lexer) scanInterpolatedText() {
	start := l.pos()
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			l.emit(token.STRING_FRAGMENT, sb.String(), start)
			sb.Reset()
		}
	}

	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			flush()
			l.addError(diagnostics.ErrL001, start, "unterminated interpolated string")
			l.emit(token.UNTERMINATED_STRING, "", l.pos())
			l.mode = modeNormal
			return
		case l.ch == '"':
			if l.peekChar() == '"' {
				sb.WriteRune('"')
				l.readChar()
				l.readChar()
				continue
			}
			flush()
			qstart := l.pos()
			l.readChar()
			l.emit(token.STRING_END, `"`, qstart)
			l.mode = modeNormal
			return
		case l.ch == '{':
			if l.peekChar() == '{' {
				sb.WriteRune('{')
				l.readChar()
				l.readChar()
				continue
			}
			flush()
			bstart := l.pos()
			l.readChar()
			l.emit(token.INTERP_START, "{", bstart)
			l.mode = modeInterpExpr
			l.braceDepth = 0
			return
		case l.ch == '}':
			if l.peekChar() == '}' {
				sb.WriteRune('}')
				l.readChar()
				l.readChar()
				continue
			}
			// A stray closing brace is literal text.
			sb.WriteRune('}')
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// recoverUnterminated is the interpolation-expression EOL/EOF path: emit the
// recovery token and hard-reset to Normal so following lines lex cleanly.
func (l *Lexer) recoverUnterminated(at token.Position) {
	l.addError(diagnostics.ErrL001, at, "unterminated string interpolation")
	l.emit(token.UNTERMINATED_STRING, "", at)
	l.mode = modeNormal
	l.braceDepth = 0
}

func (l *Lexer) scanBlockComment(start token.Position) {
	from := l.position
	l.readChar() // '/'
	l.readChar() // '*'
	for {
		if l.ch == 0 {
			l.addError(diagnostics.ErrL004, start, "unterminated block comment")
			break
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	l.emitOn(token.COMMENT, l.input[from:l.position], start, token.ChannelComment)
}

// scanNestableComment scans <* ... *>, which nests.
func (l *Lexer) scanNestableComment(start token.Position) {
	from := l.position
	l.readChar() // '<'
	l.readChar() // '*'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.addError(diagnostics.ErrL004, start, "unterminated block comment")
			break
		}
		if l.ch == '<' && l.peekChar() == '*' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '*' && l.peekChar() == '>' {
			depth--
			l.readChar()
			l.readChar()
			continue
		}
		l.readChar()
	}
	l.emitOn(token.COMMENT, l.input[from:l.position], start, token.ChannelComment)
}

// scanDirectiveWord scans #If, #Then, #Else, #End-If and #ToolsRel, and
// flips the directive sub-mode so dotted release literals lex as a single
// version token.
func (l *Lexer) scanDirectiveWord(start token.Position) {
	l.readChar() // '#'
	from := l.position
	for isIdentPart(l.ch) || l.ch == '-' {
		l.readChar()
	}
	word := l.input[from:l.position]
	switch strings.ToLower(word) {
	case "if":
		l.emit(token.DIRECTIVE_IF, "#If", start)
		l.mode = modeDirective
	case "then":
		l.emit(token.DIRECTIVE_THEN, "#Then", start)
		l.mode = modeNormal
	case "else":
		l.emit(token.DIRECTIVE_ELSE, "#Else", start)
	case "end-if":
		l.emit(token.DIRECTIVE_END_IF, "#End-If", start)
	case "toolsrel":
		l.emit(token.DIRECTIVE_TOOLSREL, "#ToolsRel", start)
	default:
		l.addError(diagnostics.ErrL005, start, "unknown compiler directive #"+word)
		l.emit(token.ILLEGAL, "#"+word, start)
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }
