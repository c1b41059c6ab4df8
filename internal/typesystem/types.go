// Package typesystem implements the taint-aware type lattice: the tagged
// type variants, the join/meet/cast/dereference/array-element operations,
// and the matching/instantiation pair used to unify parametric function
// signatures against call sites.
//
// Equality throughout is structural, not pointer identity, except for
// Param, whose identity IS its pointer: two Param values are the "same"
// unification variable iff they are the same *Param. This is a deliberate
// departure from an arena-of-indices design: Go's garbage collector already
// gives us safe shared mutable cells, so a *Param pointer plays the role an
// arena index would in a language without a collector.
package typesystem

import "fmt"

// Type is implemented by every lattice variant. The interface is sealed to
// this package: only the variants declared here may satisfy it.
type Type interface {
	fmt.Stringer
	isType()
}

// Mixed is the top element: "could be anything".
type Mixed struct{}

func (Mixed) isType()        {}
func (Mixed) String() string { return "mixed" }

// Empty is the bottom element, e.g. the element type of a literal `[]`.
type Empty struct{}

func (Empty) isType()        {}
func (Empty) String() string { return "empty" }

// Unset marks a variable that was read before any assignment reached it.
// Such a value is potentially attacker-controlled.
type Unset struct{}

func (Unset) isType()        {}
func (Unset) String() string { return "unset" }

// ErrorType marks an expression whose type inference failed outright. It
// is a value, not a panic: analysis always proceeds past it.
type ErrorType struct {
	Msg string
}

func (ErrorType) isType() {}
func (e ErrorType) String() string {
	if e.Msg == "" {
		return "error"
	}
	return "error(" + e.Msg + ")"
}

// Prim is a primitive shape: num, string, boolean, resource, or any other
// tag the surrounding language's cast expressions recognise.
type Prim struct {
	Name string
}

func (Prim) isType()        {}
func (p Prim) String() string { return p.Name }

// Arr is an array all of whose elements have type Elem. Per-key tracking
// is deliberately not modelled (spec Non-goals).
type Arr struct {
	Elem Type
}

func (Arr) isType()        {}
func (a Arr) String() string { return "array(" + a.Elem.String() + ")" }

// Escaped marks Inner as sanitised against the sink identified by Tag
// (e.g. "mysql", "html").
type Escaped struct {
	Tag   string
	Inner Type
}

func (Escaped) isType() {}
func (e Escaped) String() string {
	return "escaped(" + e.Tag + ", " + e.Inner.String() + ")"
}

// Trusted marks Inner as a program literal, implicitly escaped for every
// sink. Trusted is a refinement of Escaped: Trusted(x) matches any
// Escaped(_, x).
type Trusted struct {
	Inner Type
}

func (Trusted) isType()        {}
func (t Trusted) String() string { return "trusted(" + t.Inner.String() + ")" }

// Param is a unification variable used in parametric function signatures.
// Value is nil until the variable is narrowed by a successful match; once
// set it is only ever narrowed further via Meet, never widened or cleared.
//
// A *Param is an identity: two distinct *Param values are different
// unification variables even if their Name and Value happen to agree.
type Param struct {
	Name  string
	Value Type
}

func (*Param) isType() {}
func (p *Param) String() string {
	if p.Value != nil {
		return p.Value.String()
	}
	return p.Name
}

// VarKind discriminates the three forms a function's input/output
// identifier can take.
type VarKind int

const (
	VarPositional VarKind = iota
	VarGlobal
	VarReturnKind
)

// VarId identifies one input or output slot of a Fun: either a positional
// argument index, a named global, or the single reserved Return sentinel.
type VarId struct {
	Kind  VarKind
	Index int
	Name  string
}

// Positional builds the VarId for the i-th positional argument (0-based).
func Positional(i int) VarId { return VarId{Kind: VarPositional, Index: i} }

// Global builds the VarId naming a global variable.
func Global(name string) VarId { return VarId{Kind: VarGlobal, Name: name} }

// Return is the reserved sentinel identifying a function's return value.
var Return = VarId{Kind: VarReturnKind}

func (v VarId) String() string {
	switch v.Kind {
	case VarPositional:
		return fmt.Sprintf("$%d", v.Index)
	case VarGlobal:
		return "$" + v.Name
	default:
		return "<return>"
	}
}

// Fun is a captured call signature: the types expected on input (by
// position or by global name) and the types produced on output (by global
// name, plus the reserved Return slot), under Name for diagnostics.
type Fun struct {
	Inp  map[VarId]Type
	Out  map[VarId]Type
	Name string
}

func (*Fun) isType() {}
func (f *Fun) String() string {
	return "function " + f.Name
}
