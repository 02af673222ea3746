// Package directive evaluates PeopleCode conditional-compilation blocks:
//
//	#If #ToolsRel >= "8.54" #Then ... #Else ... #End-If
//
// Applied between lexing and parsing, it selects which branch's tokens reach
// the parser. Release literals are ordered with semver semantics; a dotted
// tools release like 8.54.27 coerces cleanly. Malformed directives fail open
// and keep both branches.
package directive

import (
	"github.com/Masterminds/semver/v3"

	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

// Evaluator selects directive branches for one target tools release. A nil
// target means "no release configured": the #Else branch is preferred, as it
// conventionally carries the newer code path.
type Evaluator struct {
	target *semver.Version
	errors []*diagnostics.DiagnosticError
}

// NewEvaluator parses the configured tools release. An empty release yields
// an evaluator with no target.
func NewEvaluator(toolsRelease string) (*Evaluator, error) {
	e := &Evaluator{}
	if toolsRelease != "" {
		v, err := semver.NewVersion(toolsRelease)
		if err != nil {
			return nil, err
		}
		e.target = v
	}
	return e, nil
}

// Apply rewrites the token slice, replacing every directive block with the
// tokens of its selected branch. Directive tokens themselves never reach the
// parser.
func (e *Evaluator) Apply(tokens []token.Token) ([]token.Token, []*diagnostics.DiagnosticError) {
	e.errors = nil
	out, _ := e.apply(tokens, 0, false)
	return out, e.errors
}

// apply processes tokens from position i. Inside a branch, it stops at
// #Else/#End-If and returns the stop index.
func (e *Evaluator) apply(tokens []token.Token, i int, inBranch bool) ([]token.Token, int) {
	var out []token.Token
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Type {
		case token.DIRECTIVE_IF:
			selected, next := e.evalBlock(tokens, i)
			out = append(out, selected...)
			i = next
		case token.DIRECTIVE_ELSE, token.DIRECTIVE_END_IF:
			if inBranch {
				return out, i
			}
			e.errors = append(e.errors, diagnostics.NewError(
				diagnostics.ErrL005, tok.Span, "stray "+tok.Type.String()+" outside a directive block"))
			i++
		case token.DIRECTIVE_THEN, token.DIRECTIVE_TOOLSREL, token.DIRECTIVE_VERSION:
			// Leftovers of a malformed condition, already reported; the
			// parser must never see them.
			i++
		default:
			out = append(out, tok)
			i++
		}
	}
	return out, i
}

// evalBlock handles one #If at position i and returns the selected branch
// tokens plus the index just past #End-If.
func (e *Evaluator) evalBlock(tokens []token.Token, i int) ([]token.Token, int) {
	openSpan := tokens[i].Span
	i++ // #If

	cond, ok, condEnd := e.parseCondition(tokens, i)
	i = condEnd
	if i < len(tokens) && tokens[i].Type == token.DIRECTIVE_THEN {
		i++
	} else {
		ok = false
	}

	thenTokens, stop := e.apply(tokens, i, true)
	var elseTokens []token.Token
	i = stop
	if i < len(tokens) && tokens[i].Type == token.DIRECTIVE_ELSE {
		elseTokens, stop = e.apply(tokens, i+1, true)
		i = stop
	}
	if i < len(tokens) && tokens[i].Type == token.DIRECTIVE_END_IF {
		i++
	} else {
		e.errors = append(e.errors, diagnostics.NewError(
			diagnostics.ErrL005, openSpan, "directive block is missing #End-If"))
	}

	if !ok {
		// Malformed condition: keep both branches so analysis sees all code.
		e.errors = append(e.errors, diagnostics.NewError(
			diagnostics.ErrL005, openSpan, "malformed directive condition"))
		return append(thenTokens, elseTokens...), i
	}

	if e.target == nil {
		if elseTokens != nil {
			return elseTokens, i
		}
		return thenTokens, i
	}
	if cond {
		return thenTokens, i
	}
	return elseTokens, i
}

// parseCondition reads `#ToolsRel op literal` or `literal op #ToolsRel`.
func (e *Evaluator) parseCondition(tokens []token.Token, i int) (result, ok bool, next int) {
	read := func(j int) (token.Token, bool) {
		if j < len(tokens) {
			return tokens[j], true
		}
		return token.Token{}, false
	}

	first, ok1 := read(i)
	op, ok2 := read(i + 1)
	second, ok3 := read(i + 2)
	next = i + 3
	if !ok1 || !ok2 || !ok3 {
		return false, false, i
	}

	var literal token.Token
	reversed := false
	switch {
	case first.Type == token.DIRECTIVE_TOOLSREL:
		literal = second
	case second.Type == token.DIRECTIVE_TOOLSREL:
		literal = first
		reversed = true
	default:
		return false, false, i
	}

	ver, err := semver.NewVersion(literal.Lexeme)
	if err != nil {
		return false, false, i
	}
	if e.target == nil {
		// No release configured; the caller applies the else-branch default.
		return false, true, next
	}

	cmp := e.target.Compare(ver)
	if reversed {
		cmp = -cmp
	}
	switch op.Type {
	case token.LT:
		return cmp < 0, true, next
	case token.LE:
		return cmp <= 0, true, next
	case token.EQ:
		return cmp == 0, true, next
	case token.GE:
		return cmp >= 0, true, next
	case token.GT:
		return cmp > 0, true, next
	case token.NEQ:
		return cmp != 0, true, next
	}
	return false, false, i
}
