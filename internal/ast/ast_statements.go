package ast

import "github.com/pclint/pclint/internal/token"

// BlockNode is an ordered statement list. Blocks do not introduce scope in
// PeopleCode; only methods, functions and property accessors do.
type BlockNode struct {
	baseNode
	Statements []Statement
}

func (n *BlockNode) Accept(v Visitor) { v.VisitBlock(n) }
func (n *BlockNode) Children() []Node {
	out := make([]Node, 0, len(n.Statements))
	for _, s := range n.Statements {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
func (n *BlockNode) statementNode() {}

// LocalVariableDecl is `Local TYPE &a, &b;`, optionally with an initializer
// when a single name is declared: `Local string &s = "x";`.
type LocalVariableDecl struct {
	baseNode
	Type  TypeNode
	Names []*IdentifierNode
	Value Expression
}

func (n *LocalVariableDecl) Accept(v Visitor) { v.VisitLocalVariableDecl(n) }
func (n *LocalVariableDecl) Children() []Node {
	out := children(n.Type)
	for _, id := range n.Names {
		out = append(out, id)
	}
	return append(out, children(n.Value)...)
}
func (n *LocalVariableDecl) statementNode() {}

// AssignmentNode is `target = value;` or a shorthand form (`+=`, `-=`,
// `|=`). Assignment is a statement in PeopleCode, not an expression.
type AssignmentNode struct {
	baseNode
	Target Expression
	Op     token.Type
	Value  Expression
}

func (n *AssignmentNode) Accept(v Visitor) { v.VisitAssignment(n) }
func (n *AssignmentNode) Children() []Node { return children(n.Target, n.Value) }
func (n *AssignmentNode) statementNode()   {}

// IfNode is `If cond Then ... [Else ...] End-If;`.
type IfNode struct {
	baseNode
	Cond Expression
	Then *BlockNode
	Else *BlockNode
}

func (n *IfNode) Accept(v Visitor) { v.VisitIf(n) }
func (n *IfNode) Children() []Node {
	out := children(n.Cond)
	if n.Then != nil {
		out = append(out, n.Then)
	}
	if n.Else != nil {
		out = append(out, n.Else)
	}
	return out
}
func (n *IfNode) statementNode() {}

// ForNode is `For &i = from To to [Step step] ... End-For;`.
type ForNode struct {
	baseNode
	Var  *IdentifierNode
	From Expression
	To   Expression
	Step Expression // optional
	Body *BlockNode
}

func (n *ForNode) Accept(v Visitor) { v.VisitFor(n) }
func (n *ForNode) Children() []Node {
	out := children(Node(n.Var), n.From, n.To, n.Step)
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}
func (n *ForNode) statementNode() {}

// WhileNode is `While cond ... End-While;`.
type WhileNode struct {
	baseNode
	Cond Expression
	Body *BlockNode
}

func (n *WhileNode) Accept(v Visitor) { v.VisitWhile(n) }
func (n *WhileNode) Children() []Node {
	out := children(n.Cond)
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}
func (n *WhileNode) statementNode() {}

// RepeatNode is `Repeat ... Until cond;`.
type RepeatNode struct {
	baseNode
	Body *BlockNode
	Cond Expression
}

func (n *RepeatNode) Accept(v Visitor) { v.VisitRepeat(n) }
func (n *RepeatNode) Children() []Node {
	var out []Node
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return append(out, children(n.Cond)...)
}
func (n *RepeatNode) statementNode() {}

// EvaluateNode is `Evaluate expr When ... When-Other ... End-Evaluate;`.
type EvaluateNode struct {
	baseNode
	Subject Expression
	Whens   []*WhenClauseNode
	Other   *BlockNode
}

func (n *EvaluateNode) Accept(v Visitor) { v.VisitEvaluate(n) }
func (n *EvaluateNode) Children() []Node {
	out := children(n.Subject)
	for _, w := range n.Whens {
		out = append(out, w)
	}
	if n.Other != nil {
		out = append(out, n.Other)
	}
	return out
}
func (n *EvaluateNode) statementNode() {}

// WhenClauseNode is one `When [op] value` arm. Op defaults to equality when
// the source omits it.
type WhenClauseNode struct {
	baseNode
	Op    token.Type
	Value Expression
	Body  *BlockNode
}

func (n *WhenClauseNode) Accept(v Visitor) { v.VisitWhenClause(n) }
func (n *WhenClauseNode) Children() []Node {
	out := children(n.Value)
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

// TryNode is `try ... catch ... end-try;`.
type TryNode struct {
	baseNode
	Body    *BlockNode
	Catches []*CatchNode
}

func (n *TryNode) Accept(v Visitor) { v.VisitTry(n) }
func (n *TryNode) Children() []Node {
	var out []Node
	if n.Body != nil {
		out = append(out, n.Body)
	}
	for _, c := range n.Catches {
		out = append(out, c)
	}
	return out
}
func (n *TryNode) statementNode() {}

// CatchNode is `catch Exception &ex ...`. The exception variable is scoped
// to the enclosing method or function, not to the catch block; the runtime
// scopes it that way and the registry follows suit.
type CatchNode struct {
	baseNode
	ExceptionType TypeNode
	Var           *IdentifierNode
	Body          *BlockNode
}

func (n *CatchNode) Accept(v Visitor) { v.VisitCatch(n) }
func (n *CatchNode) Children() []Node {
	out := children(n.ExceptionType, Node(n.Var))
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

// ReturnNode is `Return [expr];`.
type ReturnNode struct {
	baseNode
	Value Expression // optional
}

func (n *ReturnNode) Accept(v Visitor) { v.VisitReturn(n) }
func (n *ReturnNode) Children() []Node { return children(n.Value) }
func (n *ReturnNode) statementNode()   {}

// ThrowNode is `throw expr;`.
type ThrowNode struct {
	baseNode
	Value Expression
}

func (n *ThrowNode) Accept(v Visitor) { v.VisitThrow(n) }
func (n *ThrowNode) Children() []Node { return children(n.Value) }
func (n *ThrowNode) statementNode()   {}

// BreakNode is `Break;`.
type BreakNode struct {
	baseNode
}

func (n *BreakNode) Accept(v Visitor) { v.VisitBreak(n) }
func (n *BreakNode) Children() []Node { return nil }
func (n *BreakNode) statementNode()   {}

// ContinueNode is `Continue;`.
type ContinueNode struct {
	baseNode
}

func (n *ContinueNode) Accept(v Visitor) { v.VisitContinue(n) }
func (n *ContinueNode) Children() []Node { return nil }
func (n *ContinueNode) statementNode()   {}

// ExitNode is `Exit [code];`.
type ExitNode struct {
	baseNode
	Code Expression // optional
}

func (n *ExitNode) Accept(v Visitor) { v.VisitExit(n) }
func (n *ExitNode) Children() []Node { return children(n.Code) }
func (n *ExitNode) statementNode()   {}

// ErrorStatementNode is `Error expr;`.
type ErrorStatementNode struct {
	baseNode
	Value Expression
}

func (n *ErrorStatementNode) Accept(v Visitor) { v.VisitErrorStatement(n) }
func (n *ErrorStatementNode) Children() []Node { return children(n.Value) }
func (n *ErrorStatementNode) statementNode()   {}

// WarningStatementNode is `Warning expr;`.
type WarningStatementNode struct {
	baseNode
	Value Expression
}

func (n *WarningStatementNode) Accept(v Visitor) { v.VisitWarningStatement(n) }
func (n *WarningStatementNode) Children() []Node { return children(n.Value) }
func (n *WarningStatementNode) statementNode()   {}

// ExpressionStatement wraps an expression used in statement position,
// typically a call.
type ExpressionStatement struct {
	baseNode
	Expr Expression
}

func (n *ExpressionStatement) Accept(v Visitor) { v.VisitExpressionStatement(n) }
func (n *ExpressionStatement) Children() []Node { return children(n.Expr) }
func (n *ExpressionStatement) statementNode()   {}

// ErrorNode is the parser's recovery placeholder. It is valid both in
// statement and expression position so every rule can return structure.
type ErrorNode struct {
	baseNode
	Message string
}

func (n *ErrorNode) Accept(v Visitor) { v.VisitError(n) }
func (n *ErrorNode) Children() []Node { return nil }
func (n *ErrorNode) statementNode()   {}
func (n *ErrorNode) expressionNode()  {}
