// Package registry owns the process-wide analysis state that spec.md's
// Design Notes call out for explicit aggregation rather than top-level
// singletons: the function-signature table, the named-constant table, and
// the set of source files already analysed via include/require_once.
package registry

import (
	"github.com/tsguard/tsguard/internal/config"
	"github.com/tsguard/tsguard/internal/typesystem"
)

// Registry aggregates the analyser's global tables. A Registry is shared
// by every LocalTypingContext/call site analysed within one run; it is
// mutated only from the single analysis goroutine (spec.md §5).
type Registry struct {
	Funcs    map[string]*typesystem.Fun
	Consts   map[string]typesystem.Type
	Included map[string]bool
}

// New returns an empty Registry with no built-ins seeded — used by tests
// that want to control exactly what's in scope.
func New() *Registry {
	return &Registry{
		Funcs:    map[string]*typesystem.Fun{},
		Consts:   map[string]typesystem.Type{},
		Included: map[string]bool{},
	}
}

// NewWithBuiltins returns a Registry seeded with the language built-ins
// spec.md §6 requires at minimum, plus printf, recovered from
// original_source/tokens.py's builtin_functions list (the distilled spec
// dropped it, but the original program type-checks calls to it).
func NewWithBuiltins() *Registry {
	r := New()
	for name, fn := range Builtins() {
		r.Funcs[name] = fn
	}
	return r
}

func str() typesystem.Type  { return typesystem.Prim{Name: "string"} }
func num() typesystem.Type  { return typesystem.Prim{Name: "num"} }
func boolean() typesystem.Type { return typesystem.Prim{Name: "boolean"} }
func mysqlEscaped(inner typesystem.Type) typesystem.Type {
	return typesystem.Escaped{Tag: "mysql", Inner: inner}
}

// Builtins returns the fixed table of built-in function signatures as a
// fresh map on every call, so entries that ApplyConfig later adds to one
// Registry's Funcs never reach another Registry.
func Builtins() map[string]*typesystem.Fun {
	return map[string]*typesystem.Fun{
		"isset": {
			Name: "isset",
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Mixed{}},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: boolean()},
		},
		"count": {
			Name: "count",
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Arr{Elem: typesystem.Mixed{}}},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: num()},
		},
		"mysql_query": {
			Name: "mysql_query",
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): mysqlEscaped(str())},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: typesystem.Mixed{}},
		},
		"mysql_error": {
			Name: "mysql_error",
			Inp:  map[typesystem.VarId]typesystem.Type{},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: str()},
		},
		"mysql_real_escape_string": {
			Name: "mysql_real_escape_string",
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Mixed{}},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: mysqlEscaped(str())},
		},
		// printf is variadic in the source language; we model only its
		// first (format) argument, which must already be safe for HTML
		// output, matching how the rest of the builtin table treats
		// output sinks. It has no meaningful return value.
		"printf": {
			Name: "printf",
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Escaped{Tag: "html", Inner: str()}},
			Out:  map[typesystem.VarId]typesystem.Type{},
		},
	}
}

// ApplyConfig layers project-declared sinks and escapers from a parsed
// tsguard.yaml onto r, without touching the fixed built-in table. A sink
// declaration becomes a Fun requiring Escaped(tag, Prim(string)) at the
// declared argument position; an escaper declaration becomes a Fun taking
// Mixed and returning Escaped(tag, Prim(string)), matching the shape of
// mysql_query/mysql_real_escape_string above.
func (r *Registry) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	for _, s := range cfg.Sinks {
		r.Funcs[s.Function] = &typesystem.Fun{
			Name: s.Function,
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(s.Arg): typesystem.Escaped{Tag: s.Tag, Inner: str()}},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: typesystem.Mixed{}},
		}
	}
	for _, e := range cfg.Escapers {
		r.Funcs[e.Function] = &typesystem.Fun{
			Name: e.Function,
			Inp:  map[typesystem.VarId]typesystem.Type{typesystem.Positional(0): typesystem.Mixed{}},
			Out:  map[typesystem.VarId]typesystem.Type{typesystem.Return: typesystem.Escaped{Tag: e.Tag, Inner: str()}},
		}
	}
}
