package analyzer

import (
	"github.com/tsguard/tsguard/internal/ast"
	"github.com/tsguard/tsguard/internal/contexts"
	"github.com/tsguard/tsguard/internal/token"
	"github.com/tsguard/tsguard/internal/typesystem"
)

const varKind = token.Variable

// Loader resolves the source referenced by an include/require_once
// expression into a parsed program. A nil Loader makes include/require
// inert: the target expression is still evaluated (for its side effects
// and type), but no recursive analysis happens.
type Loader interface {
	Load(path string) (*ast.Program, error)
}

// Exec abstractly interprets statement s against ctx, per the
// statement-level driver contract: it reads/writes ctx and never raises —
// every error path widens to a lattice value plus a diagnostic.
func (a *Analyzer) Exec(ctx Context, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		for _, inner := range st.Stmts {
			a.Exec(ctx, inner)
		}

	case *ast.ExprStmt:
		a.Eval(ctx, st.X, false)

	case *ast.GlobalStmt:
		if gm, ok := ctx.(GlobalMarker); ok {
			gm.MarkGlobal(st.Names)
		}

	case *ast.ReturnStmt:
		var t typesystem.Type = typesystem.Unset{}
		if st.X != nil {
			t = a.Eval(ctx, st.X, true)
		}
		ctx.SetReturn(t)

	case *ast.EchoStmt:
		a.Eval(ctx, st.X, true)

	case *ast.ExitStmt:
		if st.X != nil {
			a.Eval(ctx, st.X, true)
		}

	case *ast.IncludeStmt:
		a.execInclude(ctx, st)

	case *ast.IfStmt:
		a.execIf(ctx, st)

	case *ast.WhileStmt:
		a.execWhile(ctx, st)

	case *ast.ForStmt:
		a.execFor(ctx, st)

	case *ast.ForeachStmt:
		a.execForeach(ctx, st)

	case *ast.SwitchStmt:
		a.execSwitch(ctx, st)

	case *ast.FunctionStmt:
		a.execFunctionDecl(st)
	}
}

// AnalyzeProgram runs the driver over every top-level statement in prog,
// starting from a fresh global TypingContext seeded with the request
// superglobals, and returns that context for the caller (cmd/tsguard,
// which stores its Snapshot in the cache) to inspect alongside a.Reg.Funcs.
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) *contexts.TypingContext {
	ctx := contexts.NewTypingContext()
	seedRequestGlobals(ctx)
	for _, s := range prog.Stmts {
		a.Exec(ctx, s)
	}
	return ctx
}

// seedRequestGlobals binds the three request superglobals the way the
// entry point always has: _GET/_POST hold untrusted strings, _SERVER
// holds (comparatively) trusted ones.
func seedRequestGlobals(ctx *contexts.TypingContext) {
	ctx.Set("_GET", typesystem.Arr{Elem: typesystem.Prim{Name: "string"}})
	ctx.Set("_POST", typesystem.Arr{Elem: typesystem.Prim{Name: "string"}})
	ctx.Set("_SERVER", typesystem.Arr{Elem: typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}}})
}

func (a *Analyzer) execIf(ctx Context, st *ast.IfStmt) {
	a.Eval(ctx, st.Cond, true)

	background, ok := ctx.(contexts.Background)
	if !ok {
		// Defensive: every Context this package hands out also
		// satisfies Background. Fall back to straight-line evaluation
		// rather than crashing if a caller supplies something exotic.
		a.execBlock(ctx, st.Then)
		if st.Else != nil {
			a.execBlock(ctx, st.Else)
		}
		return
	}

	thenOverlay := contexts.NewOverlay(background)
	a.execBlock(thenOverlay, st.Then)

	elseOverlay := contexts.NewOverlay(background)
	if st.Else != nil {
		a.execBlock(elseOverlay, st.Else)
	}

	merged := contexts.UnionOverlays(thenOverlay, elseOverlay)
	merged.Apply()
}

func (a *Analyzer) execBlock(ctx Context, b *ast.Block) {
	if b == nil {
		return
	}
	a.Exec(ctx, b)
}

// execWhile evaluates the loop condition and body to a fixpoint, unifying
// `while` with `foreach`'s loop handling (see DESIGN.md: the source
// single-passes `while`, which looks like an oversight given `foreach`
// already uses a fixpoint; this implementation uses fixpoint evaluation
// for both).
func (a *Analyzer) execWhile(ctx Context, st *ast.WhileStmt) {
	loop := contexts.NewAutoTypingContext()
	a.Eval(loop, st.Cond, true)
	a.execBlock(loop, st.Body)
	w := a.warn(st.Tok)
	converged := loop.Fixpoint(w)
	converged.ApplyTo(ctx, w)
}

func (a *Analyzer) execFor(ctx Context, st *ast.ForStmt) {
	for _, e := range st.Init {
		a.Eval(ctx, e, false)
	}
	for _, e := range st.Test {
		a.Eval(ctx, e, true)
	}
	a.execBlock(ctx, st.Body)
	for _, e := range st.Step {
		a.Eval(ctx, e, false)
	}
}

func (a *Analyzer) execForeach(ctx Context, st *ast.ForeachStmt) {
	arrType := a.Eval(ctx, st.Arr, true)
	w := a.warn(st.Tok)
	elemType := typesystem.ArrayElt(arrType, w)

	if st.Var != nil && st.Var.Kind == varKind {
		ctx.Set(st.Var.Str, elemType)
	}
	if st.Key != nil && st.Key.Kind == varKind {
		ctx.Set(st.Key.Str, typesystem.Mixed{})
	}

	loop := contexts.NewAutoTypingContext()
	a.execBlock(loop, st.Body)
	loop.Fixpoint(w).ApplyTo(ctx, w)
}

func (a *Analyzer) execSwitch(ctx Context, st *ast.SwitchStmt) {
	a.Eval(ctx, st.Subject, true)
	for _, c := range st.Cases {
		if c.Value != nil {
			a.Eval(ctx, c.Value, true)
		}
		a.execBlock(ctx, c.Body)
	}
}

func (a *Analyzer) execFunctionDecl(st *ast.FunctionStmt) {
	lc := contexts.NewLocalTypingContext(st.Params, st.Name)
	a.execBlock(lc, st.Body)
	a.Reg.Funcs[st.Name] = lc.AsFunctionType()
}

func (a *Analyzer) execInclude(ctx Context, st *ast.IncludeStmt) {
	if st.X != nil {
		a.Eval(ctx, st.X, true)
	}

	if a.Loader == nil || st.X == nil || st.X.Kind != token.String {
		return
	}
	path := st.X.Str
	if a.Reg.Included[path] {
		return
	}
	a.Reg.Included[path] = true

	prog, err := a.Loader.Load(path)
	if err != nil {
		// File inclusion I/O failure is non-fatal (spec.md §7): log and
		// keep analysing with whatever state already exists.
		a.warn(st.Tok).WarnIncludeFailed(path, err.Error())
		return
	}
	for _, s := range prog.Stmts {
		a.Exec(ctx, s)
	}
}
