package model

import "testing"

func TestCascadeTable(t *testing.T) {
	tests := []struct {
		owner, child, want string
	}{
		{KindItem, KindItemPhoto, CascadeDelete},
		{KindItem, KindReceipt, CascadeNullify},
		{KindItem, KindItemTag, CascadeDelete},
	}
	for _, tt := range tests {
		got, ok := PolicyFor(tt.owner, tt.child)
		if !ok {
			t.Errorf("PolicyFor(%s, %s): no rule declared", tt.owner, tt.child)
			continue
		}
		if got != tt.want {
			t.Errorf("PolicyFor(%s, %s) = %s, want %s", tt.owner, tt.child, got, tt.want)
		}
	}
}

func TestPolicyForUnknownPair(t *testing.T) {
	if _, ok := PolicyFor(KindReceipt, KindItem); ok {
		t.Error("receipts own nothing; expected no rule")
	}
}
