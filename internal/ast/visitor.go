package ast

// Visitor receives exactly one callback per node kind via Node.Accept.
type Visitor interface {
	VisitProgram(n *Program)
	VisitImport(n *ImportNode)
	VisitAppClass(n *AppClassNode)
	VisitInterface(n *InterfaceNode)
	VisitMethod(n *MethodNode)
	VisitMethodImpl(n *MethodImplNode)
	VisitProperty(n *PropertyNode)
	VisitInstanceVariable(n *InstanceVariableNode)
	VisitConstant(n *ConstantNode)
	VisitParameter(n *ParameterNode)
	VisitFunction(n *FunctionNode)
	VisitFunctionDeclare(n *FunctionDeclareNode)
	VisitProgramVariable(n *ProgramVariableNode)

	VisitBlock(n *BlockNode)
	VisitLocalVariableDecl(n *LocalVariableDecl)
	VisitAssignment(n *AssignmentNode)
	VisitIf(n *IfNode)
	VisitFor(n *ForNode)
	VisitWhile(n *WhileNode)
	VisitRepeat(n *RepeatNode)
	VisitEvaluate(n *EvaluateNode)
	VisitWhenClause(n *WhenClauseNode)
	VisitTry(n *TryNode)
	VisitCatch(n *CatchNode)
	VisitReturn(n *ReturnNode)
	VisitThrow(n *ThrowNode)
	VisitBreak(n *BreakNode)
	VisitContinue(n *ContinueNode)
	VisitExit(n *ExitNode)
	VisitErrorStatement(n *ErrorStatementNode)
	VisitWarningStatement(n *WarningStatementNode)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitError(n *ErrorNode)

	VisitIdentifier(n *IdentifierNode)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitDecimalLiteral(n *DecimalLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitBinary(n *BinaryNode)
	VisitUnary(n *UnaryNode)
	VisitFunctionCall(n *FunctionCallNode)
	VisitMethodCall(n *MethodCallNode)
	VisitPropertyAccess(n *PropertyAccessNode)
	VisitArrayAccess(n *ArrayAccessNode)
	VisitCreate(n *CreateNode)
	VisitTypeCast(n *TypeCastNode)
	VisitAt(n *AtNode)
	VisitParen(n *ParenNode)
	VisitStringFragment(n *StringFragmentNode)
	VisitInterpolatedString(n *InterpolatedStringNode)

	VisitBuiltInType(n *BuiltInTypeNode)
	VisitArrayType(n *ArrayTypeNode)
	VisitAppClassType(n *AppClassTypeNode)
}

// BaseVisitor implements Visitor with a default traversal of every kind, so
// concrete visitors override only what they care about. The traversal order
// for Program is declaration order, not source order: imports, then
// global/component variables, program-level locals, constants,
// externally-declared functions, the class or interface body, function
// implementations, and finally the main statement block. Later passes rely
// on that order to see every declaration before any reference.
//
// Embedders must call Init with themselves so that dispatch from default
// traversals reaches their overrides rather than the base methods.
type BaseVisitor struct {
	self Visitor
}

// Init wires the outer visitor for re-dispatch. Returns the receiver for
// chaining in constructors.
func (b *BaseVisitor) Init(self Visitor) *BaseVisitor {
	b.self = self
	return b
}

func (b *BaseVisitor) dispatch() Visitor {
	if b.self != nil {
		return b.self
	}
	return b
}

func (b *BaseVisitor) visitAll(nodes []Node) {
	v := b.dispatch()
	for _, n := range nodes {
		if n != nil {
			n.Accept(v)
		}
	}
}

func (b *BaseVisitor) VisitProgram(n *Program) {
	// Children() already yields declaration order.
	b.visitAll(n.Children())
}

func (b *BaseVisitor) VisitImport(n *ImportNode)                     {}
func (b *BaseVisitor) VisitAppClass(n *AppClassNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitInterface(n *InterfaceNode)               { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitMethod(n *MethodNode)                     { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitMethodImpl(n *MethodImplNode)             { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitProperty(n *PropertyNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitInstanceVariable(n *InstanceVariableNode) { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitConstant(n *ConstantNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitParameter(n *ParameterNode)               { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitFunction(n *FunctionNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitFunctionDeclare(n *FunctionDeclareNode)   {}
func (b *BaseVisitor) VisitProgramVariable(n *ProgramVariableNode)   { b.visitAll(n.Children()) }

func (b *BaseVisitor) VisitBlock(n *BlockNode)                       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitLocalVariableDecl(n *LocalVariableDecl)   { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitAssignment(n *AssignmentNode)             { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitIf(n *IfNode)                             { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitFor(n *ForNode)                           { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitWhile(n *WhileNode)                       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitRepeat(n *RepeatNode)                     { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitEvaluate(n *EvaluateNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitWhenClause(n *WhenClauseNode)             { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitTry(n *TryNode)                           { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitCatch(n *CatchNode)                       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitReturn(n *ReturnNode)                     { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitThrow(n *ThrowNode)                       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitBreak(n *BreakNode)                       {}
func (b *BaseVisitor) VisitContinue(n *ContinueNode)                 {}
func (b *BaseVisitor) VisitExit(n *ExitNode)                         { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitErrorStatement(n *ErrorStatementNode)     { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitWarningStatement(n *WarningStatementNode) { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitExpressionStatement(n *ExpressionStatement) {
	b.visitAll(n.Children())
}
func (b *BaseVisitor) VisitError(n *ErrorNode) {}

func (b *BaseVisitor) VisitIdentifier(n *IdentifierNode)         {}
func (b *BaseVisitor) VisitIntegerLiteral(n *IntegerLiteral)     {}
func (b *BaseVisitor) VisitDecimalLiteral(n *DecimalLiteral)     {}
func (b *BaseVisitor) VisitStringLiteral(n *StringLiteral)       {}
func (b *BaseVisitor) VisitBooleanLiteral(n *BooleanLiteral)     {}
func (b *BaseVisitor) VisitNullLiteral(n *NullLiteral)           {}
func (b *BaseVisitor) VisitBinary(n *BinaryNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitUnary(n *UnaryNode)                   { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitFunctionCall(n *FunctionCallNode)     { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitMethodCall(n *MethodCallNode)         { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitPropertyAccess(n *PropertyAccessNode) { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitArrayAccess(n *ArrayAccessNode)       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitCreate(n *CreateNode)                 { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitTypeCast(n *TypeCastNode)             { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitAt(n *AtNode)                         { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitParen(n *ParenNode)                   { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitStringFragment(n *StringFragmentNode) {}
func (b *BaseVisitor) VisitInterpolatedString(n *InterpolatedStringNode) {
	b.visitAll(n.Children())
}

func (b *BaseVisitor) VisitBuiltInType(n *BuiltInTypeNode)   {}
func (b *BaseVisitor) VisitArrayType(n *ArrayTypeNode)       { b.visitAll(n.Children()) }
func (b *BaseVisitor) VisitAppClassType(n *AppClassTypeNode) {}
