package token

// Stream is an eagerly materialized token sequence with lookahead. The parser
// consumes it through Next/Peek; Mark/Reset support bounded backtracking.
//
// Comment-channel tokens are kept in the stream but skipped by Next and Peek;
// AllTokens exposes the raw sequence for trivia consumers.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF})
	}
	return &Stream{tokens: tokens}
}

// Next returns the next code-channel token and advances.
func (s *Stream) Next() Token {
	for s.pos < len(s.tokens) {
		tok := s.tokens[s.pos]
		s.pos++
		if tok.Channel == ChannelCode {
			return tok
		}
	}
	return s.tokens[len(s.tokens)-1]
}

// Peek returns the n-th upcoming code-channel token without advancing.
// Peek(0) is the token Next would return.
func (s *Stream) Peek(n int) Token {
	seen := 0
	for i := s.pos; i < len(s.tokens); i++ {
		if s.tokens[i].Channel != ChannelCode {
			continue
		}
		if seen == n {
			return s.tokens[i]
		}
		seen++
	}
	return s.tokens[len(s.tokens)-1]
}

// Mark returns the current position for a later Reset.
func (s *Stream) Mark() int { return s.pos }

// Reset rewinds the stream to a position previously returned by Mark.
func (s *Stream) Reset(mark int) {
	if mark >= 0 && mark <= len(s.tokens) {
		s.pos = mark
	}
}

// AllTokens returns the underlying token slice, comments included.
func (s *Stream) AllTokens() []Token { return s.tokens }

// Len returns the total number of tokens, comments included.
func (s *Stream) Len() int { return len(s.tokens) }
