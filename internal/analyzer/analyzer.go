// Package analyzer implements the abstract interpreter: the expression
// evaluator and the statement-level driver that splices contexts around
// control-flow constructs.
package analyzer

import (
	"github.com/tsguard/tsguard/internal/ast"
	"github.com/tsguard/tsguard/internal/diagnostics"
	"github.com/tsguard/tsguard/internal/registry"
	"github.com/tsguard/tsguard/internal/token"
	"github.com/tsguard/tsguard/internal/typesystem"
)

// Context is everything the evaluator needs from a scope: variable and
// return-value access. internal/contexts' TypingContext, ContextOverlay,
// AutoTypingContext and LocalTypingContext all implement it.
type Context interface {
	typesystem.CallContext
	SetReturn(t typesystem.Type)
	HasReturn() bool
	GetReturn(warn typesystem.Warn) typesystem.Type
}

// GlobalMarker is implemented by contexts that can honour a `global`
// statement (only LocalTypingContext, in practice).
type GlobalMarker interface {
	MarkGlobal(names []string)
}

// Analyzer ties the evaluator to one run's shared registry and
// diagnostic sink.
type Analyzer struct {
	Reg    *registry.Registry
	Sink   diagnostics.Sink
	File   string
	Loader Loader
}

// New builds an Analyzer reporting into sink, tagging diagnostics with
// file.
func New(reg *registry.Registry, sink diagnostics.Sink, file string) *Analyzer {
	return &Analyzer{Reg: reg, Sink: sink, File: file}
}

func (a *Analyzer) warn(tok token.Token) typesystem.Warn {
	return typesystem.NewWarn(a.Sink, a.File, tok)
}

var assignKinds = map[token.Type]bool{
	token.Assign:       true,
	token.PlusAssign:   true,
	token.MinusAssign:  true,
	token.TimesAssign:  true,
	token.DivideAssign: true,
	token.ModuloAssign: true,
	token.CatAssign:    true,
}

var arithKinds = map[token.Type]bool{
	token.Plus:         true,
	token.Minus:        true,
	token.Times:        true,
	token.Divide:       true,
	token.Modulo:       true,
	token.PlusAssign:   true,
	token.MinusAssign:  true,
	token.TimesAssign:  true,
	token.DivideAssign: true,
	token.ModuloAssign: true,
}

var concatKinds = map[token.Type]bool{
	token.Period:    true,
	token.CatAssign: true,
}

var binaryKinds = unionKinds(assignKinds, arithKinds, concatKinds, map[token.Type]bool{
	token.Equals: true, token.EqualsExactly: true,
	token.NotEquals: true, token.NotEqualsExactly: true,
	token.LessThan: true, token.LessOrEqual: true,
	token.GreaterThan: true, token.GreaterOrEqual: true,
	token.BooleanAnd: true, token.BooleanOr: true,
	token.Ampersand: true, token.Pipe: true,
})

func unionKinds(sets ...map[token.Type]bool) map[token.Type]bool {
	out := map[token.Type]bool{}
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

// Eval abstractly interprets expression e in ctx and returns its type.
// used indicates whether the caller actually consumes the resulting
// value (as opposed to a bare statement-level expression evaluated only
// for side effects); it controls whether an absent function Return
// triggers ErrA107.
func (a *Analyzer) Eval(ctx Context, e *ast.Expr, used bool) typesystem.Type {
	if e == nil {
		return typesystem.ErrorType{Msg: "missing expression"}
	}
	w := a.warn(e.Tok)

	switch {
	case e.Kind == token.String:
		return typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}}
	case e.Kind == token.Number:
		return typesystem.Trusted{Inner: typesystem.Prim{Name: "num"}}
	case e.Kind == token.BuiltinConstant:
		return typesystem.Trusted{Inner: typesystem.Prim{Name: "boolean"}}
	case e.Kind == token.Variable:
		return ctx.Get(e.Str, w.On())
	case binaryKinds[e.Kind]:
		return a.evalBinary(ctx, e, w)
	case e.Kind == token.UnaryMinus || e.Kind == token.BooleanNot:
		if len(e.Children) > 0 {
			a.Eval(ctx, e.Children[0], true)
		}
		return typesystem.Mixed{}
	case e.Kind == token.Cast:
		inner := typesystem.Type(typesystem.Mixed{})
		if len(e.Children) > 0 {
			inner = a.Eval(ctx, e.Children[0], true)
		}
		return typesystem.Cast(inner, e.Str)
	case e.Kind == token.Question:
		for _, c := range e.Children {
			a.Eval(ctx, c, true)
		}
		return typesystem.Mixed{}
	case e.Kind == token.ArrayAccess:
		base := a.Eval(ctx, e.Children[0], true)
		for _, c := range e.Children[1:] {
			a.Eval(ctx, c, true)
		}
		return typesystem.ArrayElt(base, w)
	case e.Kind == token.FunctionCall:
		return a.evalCall(ctx, e, w, used)
	default:
		return typesystem.Mixed{}
	}
}

func (a *Analyzer) evalBinary(ctx Context, e *ast.Expr, w typesystem.Warn) typesystem.Type {
	isAssign := assignKinds[e.Kind]

	var lhsType typesystem.Type = typesystem.Mixed{}
	if !isAssign && len(e.Children) > 0 {
		lhsType = a.Eval(ctx, e.Children[0], true)
	}
	var rhsType typesystem.Type = typesystem.Mixed{}
	if len(e.Children) > 1 {
		rhsType = a.Eval(ctx, e.Children[1], true)
	}

	var result typesystem.Type
	switch {
	case e.Kind == token.Assign:
		result = rhsType
	case arithKinds[e.Kind]:
		result = typesystem.Join(typesystem.Trusted{Inner: typesystem.Prim{Name: "num"}},
			typesystem.Cast(lhsType, "num"))
		result = typesystem.Join(result, typesystem.Cast(rhsType, "num"))
	case concatKinds[e.Kind]:
		result = typesystem.Join(typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}},
			typesystem.Cast(lhsType, "string"))
		result = typesystem.Join(result, typesystem.Cast(rhsType, "string"))
	default:
		result = typesystem.Mixed{}
	}

	if isAssign && len(e.Children) > 0 {
		lv := e.Children[0]
		if lv.Kind == token.Variable {
			ctx.Set(lv.Str, result)
		} else {
			w.WarnBadLValue()
		}
	}

	return result
}

func (a *Analyzer) evalCall(ctx Context, e *ast.Expr, w typesystem.Warn, used bool) typesystem.Type {
	argTypes := make([]typesystem.Type, len(e.Children))
	for i, c := range e.Children {
		argTypes[i] = a.Eval(ctx, c, true)
	}

	switch e.Str {
	case "define":
		if len(e.Children) >= 2 && e.Children[0].Kind == token.String {
			a.Reg.Consts[e.Children[0].Str] = argTypes[1]
		} else {
			w.WarnBadDefineTarget()
		}
		return typesystem.Unset{}
	case "array":
		elem := typesystem.Type(typesystem.Empty{})
		for _, t := range argTypes {
			elem = typesystem.Join(elem, t)
		}
		return typesystem.Arr{Elem: elem}
	}

	if fn, ok := a.Reg.Funcs[e.Str]; ok {
		return fn.Apply(ctx, argTypes, w, used)
	}
	if ct, ok := a.Reg.Consts[e.Str]; ok {
		return ct
	}
	w.WarnUndefinedFunction(e.Str)
	return typesystem.ErrorType{Msg: "undefined function " + e.Str}
}
