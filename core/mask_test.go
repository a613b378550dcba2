package core

import "testing"

// Test mask bit operations are independent per kind
func TestMaskSetUnset(t *testing.T) {
	var m Mask

	m.Set(KindTransform)
	m.Set(KindEmitter)

	if !m.Has(KindTransform) || !m.Has(KindEmitter) {
		t.Error("Expected set bits present")
	}
	if m.Has(KindGravity) {
		t.Error("Expected unset bit absent")
	}

	m.Unset(KindTransform)
	if m.Has(KindTransform) {
		t.Error("Expected bit cleared")
	}
	if !m.Has(KindEmitter) {
		t.Error("Unset cleared an unrelated bit")
	}
}

// Test every kind has a distinct name
func TestKindNames(t *testing.T) {
	seen := make(map[string]ComponentKind)
	for k := ComponentKind(0); k < KindCount; k++ {
		name := k.String()
		if name == "Unknown" || name == "" {
			t.Errorf("Kind %d has no name", k)
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("Kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
}

// Test entity identity basics
func TestEntityID(t *testing.T) {
	a := NewEntityID()
	b := NewEntityID()

	if a == b {
		t.Error("Expected distinct ids")
	}
	if a.IsNil() {
		t.Error("Fresh id reported nil")
	}
	if !NilEntity.IsNil() {
		t.Error("NilEntity not reported nil")
	}
	if a.String() == "" {
		t.Error("Expected non-empty textual form")
	}
}
