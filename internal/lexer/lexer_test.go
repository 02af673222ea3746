package lexer_test

import (
	"testing"

	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/lexer"
	"github.com/pclint/pclint/internal/token"
)

// codeTokens lexes src and returns the code-channel tokens minus the
// trailing EOF, plus any lexer errors.
func codeTokens(t *testing.T, src string) ([]token.Token, []*diagnostics.DiagnosticError) {
	t.Helper()
	stream, errs := lexer.Tokenize(src)
	var out []token.Token
	for _, tok := range stream.AllTokens() {
		if tok.Channel != token.ChannelCode || tok.Type == token.EOF {
			continue
		}
		out = append(out, tok)
	}
	return out, errs
}

func expectTypes(t *testing.T, src string, want ...token.Type) []token.Token {
	t.Helper()
	toks, _ := codeTokens(t, src)
	if len(toks) != len(want) {
		t.Fatalf("%q: got %d tokens, want %d\ntokens: %v", src, len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("%q: token %d = %s, want %s", src, i, toks[i].Type, w)
		}
	}
	return toks
}

func expectError(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.Code) {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	t.Errorf("expected error %s, got %v", code, errs)
}

func expectNoErrors(t *testing.T, errs []*diagnostics.DiagnosticError) {
	t.Helper()
	if len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestBasicTokens(t *testing.T) {
	toks := expectTypes(t, `Local number &n = 42;`,
		token.LOCAL, token.IDENT, token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON)
	if toks[2].Lexeme != "&n" {
		t.Errorf("user variable lexeme = %q, want %q", toks[2].Lexeme, "&n")
	}
	if toks[4].Lexeme != "42" {
		t.Errorf("integer lexeme = %q, want %q", toks[4].Lexeme, "42")
	}
}

func TestNumbers(t *testing.T) {
	toks := expectTypes(t, `3.14 100 0.5`, token.DECIMAL, token.INTEGER, token.DECIMAL)
	if toks[0].Lexeme != "3.14" {
		t.Errorf("decimal lexeme = %q, want %q", toks[0].Lexeme, "3.14")
	}
	// Outside a directive a second dot ends the number.
	expectTypes(t, `1.2.3`, token.DECIMAL, token.DOT, token.INTEGER)
}

func TestSystemVariables(t *testing.T) {
	toks := expectTypes(t, `%UserId %This %Super`,
		token.SYSTEM_VARIABLE, token.SYSTEM_VARIABLE, token.SYSTEM_VARIABLE)
	if toks[1].Lexeme != "%This" {
		t.Errorf("lexeme = %q, want %%This", toks[1].Lexeme)
	}
}

func TestOperators(t *testing.T) {
	expectTypes(t, `= <> != <= >= < > + - * / ** | @`,
		token.EQ, token.NEQ, token.NEQ, token.LE, token.GE, token.LT, token.GT,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.POWER,
		token.PIPE, token.AT)
	expectTypes(t, `+= -= |=`, token.PLUS_EQ, token.MINUS_EQ, token.PIPE_EQ)
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	expectTypes(t, `IF if If THEN then`,
		token.IF, token.IF, token.IF, token.THEN, token.THEN)
}

func TestHyphenatedKeywords(t *testing.T) {
	expectTypes(t, `End-If End-While When-Other End-Evaluate`,
		token.END_IF, token.END_WHILE, token.WHEN_OTHER, token.END_EVALUATE)

	// The hyphen only joins when the combined word is a known keyword;
	// otherwise the scan rolls back to the bare identifier.
	expectTypes(t, `End-Foo`, token.IDENT, token.MINUS, token.IDENT)

	// A hyphen after a non-joiner word is ordinary subtraction.
	expectTypes(t, `&a-1`, token.USER_VARIABLE, token.MINUS, token.INTEGER)
}

func TestPlainStrings(t *testing.T) {
	toks := expectTypes(t, `"hello" 'world'`, token.STRING, token.STRING)
	if toks[0].Lexeme != "hello" || toks[1].Lexeme != "world" {
		t.Errorf("string lexemes = %q, %q", toks[0].Lexeme, toks[1].Lexeme)
	}
}

func TestDoubledQuoteEscape(t *testing.T) {
	toks, errs := codeTokens(t, `"say ""hi"""`)
	expectNoErrors(t, errs)
	if len(toks) != 1 || toks[0].Type != token.STRING {
		t.Fatalf("got %v, want one STRING", toks)
	}
	if toks[0].Lexeme != `say "hi"` {
		t.Errorf("lexeme = %q, want %q", toks[0].Lexeme, `say "hi"`)
	}

	toks, errs = codeTokens(t, `'it''s'`)
	expectNoErrors(t, errs)
	if toks[0].Lexeme != "it's" {
		t.Errorf("lexeme = %q, want %q", toks[0].Lexeme, "it's")
	}
}

func TestComments(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"block", "/* a comment */"},
		{"nestable", "<* outer <* inner *> still outer *>"},
		{"rem", "rem legacy note;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stream, errs := lexer.Tokenize(tc.src + "\n&x")
			expectNoErrors(t, errs)
			var comments int
			for _, tok := range stream.AllTokens() {
				if tok.Channel == token.ChannelComment {
					comments++
				}
			}
			if comments != 1 {
				t.Fatalf("got %d comment tokens, want 1", comments)
			}
			// Next skips the comment channel entirely.
			if got := stream.Next(); got.Type != token.USER_VARIABLE {
				t.Errorf("Next() = %s, want USER_VARIABLE", got.Type)
			}
		})
	}
}

func TestRemCommentRunsToSemicolon(t *testing.T) {
	stream, errs := lexer.Tokenize("rem this; &x = 1;")
	expectNoErrors(t, errs)
	if got := stream.Next(); got.Type != token.USER_VARIABLE {
		t.Fatalf("token after rem = %s, want USER_VARIABLE", got.Type)
	}
}

func TestInterpolationParts(t *testing.T) {
	toks := expectTypes(t, `$"a {&b} c"`,
		token.STRING_START, token.STRING_FRAGMENT, token.INTERP_START,
		token.USER_VARIABLE, token.INTERP_END, token.STRING_FRAGMENT,
		token.STRING_END)
	if toks[1].Lexeme != "a " {
		t.Errorf("leading fragment = %q, want %q", toks[1].Lexeme, "a ")
	}
	if toks[5].Lexeme != " c" {
		t.Errorf("trailing fragment = %q, want %q", toks[5].Lexeme, " c")
	}
}

func TestInterpolationNoEmptyFragments(t *testing.T) {
	expectTypes(t, `$"{&x}"`,
		token.STRING_START, token.INTERP_START, token.USER_VARIABLE,
		token.INTERP_END, token.STRING_END)
}

func TestInterpolationExpression(t *testing.T) {
	expectTypes(t, `$"n={&a + 1}"`,
		token.STRING_START, token.STRING_FRAGMENT, token.INTERP_START,
		token.USER_VARIABLE, token.PLUS, token.INTEGER,
		token.INTERP_END, token.STRING_END)
}

func TestInterpolationBraceEscapes(t *testing.T) {
	toks, errs := codeTokens(t, `$"{{literal}}"`)
	expectNoErrors(t, errs)
	if len(toks) != 3 {
		t.Fatalf("got %v, want START FRAGMENT END", toks)
	}
	if toks[1].Lexeme != "{literal}" {
		t.Errorf("fragment = %q, want %q", toks[1].Lexeme, "{literal}")
	}
}

func TestInterpolationStrayCloseBraceIsText(t *testing.T) {
	toks, errs := codeTokens(t, `$"a } b"`)
	expectNoErrors(t, errs)
	if toks[1].Lexeme != "a } b" {
		t.Errorf("fragment = %q, want %q", toks[1].Lexeme, "a } b")
	}
}

func TestNestedStringInsideInterpolation(t *testing.T) {
	expectTypes(t, `$"v={Upper("x")}"`,
		token.STRING_START, token.STRING_FRAGMENT, token.INTERP_START,
		token.IDENT, token.LPAREN, token.STRING, token.RPAREN,
		token.INTERP_END, token.STRING_END)
}

func TestBracesOutsideInterpolationAreIllegal(t *testing.T) {
	expectTypes(t, `{ }`, token.ILLEGAL, token.ILLEGAL)
}

// ---- L001 — unterminated string or interpolation ----

func TestUnterminatedStringAtNewline(t *testing.T) {
	toks, errs := codeTokens(t, "&a = \"oops\n&b = 1;")
	expectError(t, errs, diagnostics.ErrL001)
	want := []token.Type{
		token.USER_VARIABLE, token.EQ, token.UNTERMINATED_STRING,
		token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestUnterminatedStringAtEOF(t *testing.T) {
	_, errs := codeTokens(t, `&a = "oops`)
	expectError(t, errs, diagnostics.ErrL001)
}

func TestUnterminatedInterpolationTextAtNewline(t *testing.T) {
	// The line after a broken interpolation must lex cleanly.
	toks, errs := codeTokens(t, "&a = $\"broken\n&b = 2;")
	expectError(t, errs, diagnostics.ErrL001)
	last := toks[len(toks)-4:]
	want := []token.Type{token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON}
	for i, w := range want {
		if last[i].Type != w {
			t.Errorf("recovered token %d = %s, want %s", i, last[i].Type, w)
		}
	}
}

func TestUnterminatedInterpolationExpression(t *testing.T) {
	toks, errs := codeTokens(t, "&a = $\"x {&b\n&c = 3;")
	expectError(t, errs, diagnostics.ErrL001)
	// Recovery resets to Normal; the next line is intact.
	last := toks[len(toks)-4:]
	want := []token.Type{token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON}
	for i, w := range want {
		if last[i].Type != w {
			t.Errorf("recovered token %d = %s, want %s", i, last[i].Type, w)
		}
	}
}

func TestUnterminatedNestedStringResetsInterpolation(t *testing.T) {
	// A broken plain string inside an interpolation expression breaks the
	// enclosing interpolation too; both recover at the newline.
	toks, errs := codeTokens(t, "&a = $\"x {Upper(\"y\n&b = 4;")
	expectError(t, errs, diagnostics.ErrL001)
	last := toks[len(toks)-4:]
	want := []token.Type{token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON}
	for i, w := range want {
		if last[i].Type != w {
			t.Errorf("recovered token %d = %s, want %s", i, last[i].Type, w)
		}
	}
}

// ---- L002 — illegal character ----

func TestBareExclamation(t *testing.T) {
	toks, errs := codeTokens(t, `&a ! &b`)
	expectError(t, errs, diagnostics.ErrL002)
	if toks[1].Type != token.ILLEGAL {
		t.Errorf("token = %s, want ILLEGAL", toks[1].Type)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, errs := codeTokens(t, `&a = ~1;`)
	expectError(t, errs, diagnostics.ErrL002)
}

// ---- L004 — unterminated block comment ----

func TestUnterminatedBlockComment(t *testing.T) {
	_, errs := codeTokens(t, `/* never closed`)
	expectError(t, errs, diagnostics.ErrL004)

	_, errs = codeTokens(t, `<* outer <* inner *>`)
	expectError(t, errs, diagnostics.ErrL004)
}

// ---- L005 — malformed compiler directive ----

func TestUnknownDirective(t *testing.T) {
	toks, errs := codeTokens(t, `#Bogus`)
	expectError(t, errs, diagnostics.ErrL005)
	if toks[0].Type != token.ILLEGAL {
		t.Errorf("token = %s, want ILLEGAL", toks[0].Type)
	}
}

// ---- directives ----

func TestDirectiveTokens(t *testing.T) {
	src := "#If #ToolsRel >= 8.54 #Then\n&a = 1;\n#Else\n&a = 2;\n#End-If"
	expectTypes(t, src,
		token.DIRECTIVE_IF, token.DIRECTIVE_TOOLSREL, token.GE, token.DIRECTIVE_VERSION,
		token.DIRECTIVE_THEN,
		token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON,
		token.DIRECTIVE_ELSE,
		token.USER_VARIABLE, token.EQ, token.INTEGER, token.SEMICOLON,
		token.DIRECTIVE_END_IF)
}

func TestDirectiveVersionMultiDot(t *testing.T) {
	toks := expectTypes(t, `#If #ToolsRel >= 8.54.27 #Then`,
		token.DIRECTIVE_IF, token.DIRECTIVE_TOOLSREL, token.GE,
		token.DIRECTIVE_VERSION, token.DIRECTIVE_THEN)
	if toks[3].Lexeme != "8.54.27" {
		t.Errorf("version lexeme = %q, want %q", toks[3].Lexeme, "8.54.27")
	}
}

func TestDirectiveModeEndsAtNewline(t *testing.T) {
	// A missing #Then must not leak version lexing onto the next line.
	expectTypes(t, "#If #ToolsRel >= 8.54\n&v = 1.2.3;",
		token.DIRECTIVE_IF, token.DIRECTIVE_TOOLSREL, token.GE, token.DIRECTIVE_VERSION,
		token.USER_VARIABLE, token.EQ, token.DECIMAL, token.DOT, token.INTEGER, token.SEMICOLON)
}

// ---- positions ----

func TestSpans(t *testing.T) {
	stream, _ := lexer.Tokenize("&a = 1;\n&b = 2;")
	toks := stream.AllTokens()
	if toks[0].Span.Start.Line != 1 || toks[0].Span.Start.Column != 1 {
		t.Errorf("first token at %v, want 1:1", toks[0].Span.Start)
	}
	// &b starts line 2.
	var second token.Token
	for _, tok := range toks {
		if tok.Lexeme == "&b" {
			second = tok
		}
	}
	if second.Span.Start.Line != 2 || second.Span.Start.Column != 1 {
		t.Errorf("&b at %v, want 2:1", second.Span.Start)
	}
}
