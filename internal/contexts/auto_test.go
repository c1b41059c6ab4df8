package contexts

import (
	"testing"

	"github.com/tsguard/tsguard/internal/typesystem"
)

func TestAutoTypingContextSynthesisesParam(t *testing.T) {
	a := NewAutoTypingContext()
	got := a.Get("v", typesystem.NoWarn.On())
	p, ok := got.(*typesystem.Param)
	if !ok {
		t.Fatalf("Get(unknown) = %T, want *Param", got)
	}
	if a.inputs["v"] != p {
		t.Error("synthesised Param not recorded in inputs")
	}
}

func TestAutoTypingContextDisabledWarnNoSynthesis(t *testing.T) {
	a := NewAutoTypingContext()
	got := a.Get("v", typesystem.NoWarn)
	if _, ok := got.(typesystem.Unset); !ok {
		t.Errorf("Get with disabled warn = %T, want Unset", got)
	}
	if len(a.inputs) != 0 {
		t.Error("speculative read should not populate inputs")
	}
}

func TestAutoTypingContextCopyIsShallowAndIndependent(t *testing.T) {
	a := NewAutoTypingContext()
	a.Set("x", typesystem.Prim{Name: "num"})
	p := &typesystem.Param{Name: "$p"}
	a.Set("p", p)
	cp := a.Copy()
	cp.Set("x", typesystem.Prim{Name: "string"})
	if got := a.delta["x"]; !typesystem.Equal(got, typesystem.Prim{Name: "num"}) {
		t.Errorf("original mutated through copy: %s", got)
	}
	if got, ok := cp.delta["p"].(*typesystem.Param); !ok || got != p {
		t.Errorf("copy does not share the *Param value: %v", cp.delta["p"])
	}
}

func TestAutoTypingContextFixpointTerminates(t *testing.T) {
	a := NewAutoTypingContext()
	a.Get("v", typesystem.NoWarn.On())
	a.Set("v", typesystem.Trusted{Inner: typesystem.Prim{Name: "string"}})

	result := a.Fixpoint(typesystem.NoWarn)
	if result == nil {
		t.Fatal("Fixpoint returned nil")
	}
	if _, ok := result.delta["v"]; !ok {
		t.Error("fixpoint result missing converged binding for v")
	}
}

func TestAutoTypingContextApplyToWritesInstantiated(t *testing.T) {
	a := NewAutoTypingContext()
	a.Set("out", typesystem.Trusted{Inner: typesystem.Prim{Name: "num"}})

	target := NewTypingContext()
	applied := a.ApplyTo(target, typesystem.NoWarn)
	if applied != typesystem.CallContext(target) {
		t.Fatal("ApplyTo should return the same context it was given")
	}
	if got := target.Get("out", typesystem.NoWarn); !typesystem.Equal(got, typesystem.Trusted{Inner: typesystem.Prim{Name: "num"}}) {
		t.Errorf("target.Get(out) = %s, want Trusted(num)", got)
	}
}
