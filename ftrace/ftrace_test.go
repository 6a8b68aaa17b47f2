package ftrace

import "testing"

func syms() []FuncSym {
	return []FuncSym{
		{Start: 0x1000, End: 0x1020, Name: "main"},
		{Start: 0x2000, End: 0x2040, Name: "foo"},
	}
}

func TestLookup(t *testing.T) {
	tr := New(syms())
	if got := tr.Lookup(0x1010); got != "main" {
		t.Errorf("got %q, want main", got)
	}
	if got := tr.Lookup(0x2030); got != "foo" {
		t.Errorf("got %q, want foo", got)
	}
	if got := tr.Lookup(0x5000); got != unknown {
		t.Errorf("got %q, want %q", got, unknown)
	}
}

func TestCallReturnBalanced(t *testing.T) {
	tr := New(syms())
	tr.OnCall(0x1010, 0x2000, 0x1014)
	if tr.Depth() != 1 {
		t.Fatalf("got depth %d, want 1", tr.Depth())
	}
	if err := tr.OnRet(0x2030, 0x1014); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if tr.Depth() != 0 {
		t.Errorf("got depth %d, want 0", tr.Depth())
	}
}

func TestReturnMismatchReported(t *testing.T) {
	tr := New(syms())
	tr.OnCall(0x1010, 0x2000, 0x1014)
	if err := tr.OnRet(0x2030, 0x9999); err == nil {
		t.Errorf("expected a mismatch error")
	}
}

func TestReturnWithEmptyStack(t *testing.T) {
	tr := New(syms())
	if err := tr.OnRet(0x2030, 0x1014); err == nil {
		t.Errorf("expected an underflow error")
	}
}
