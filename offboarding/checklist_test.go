package offboarding_test

import (
	"errors"
	"testing"

	"github.com/saurellius/finalpay-engine/offboarding"
)

func TestChecklist_ToggleIsAValueOperation(t *testing.T) {
	var cl offboarding.Checklist

	updated, err := cl.Toggle(offboarding.FlagAccessRevoked)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !updated.AccessRevoked {
		t.Error("toggle did not set the flag on the returned copy")
	}
	if cl.AccessRevoked {
		t.Error("toggle mutated the receiver")
	}

	// Toggling twice restores the original state
	back, err := updated.Toggle(offboarding.FlagAccessRevoked)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.AccessRevoked {
		t.Error("double toggle should clear the flag")
	}
}

func TestChecklist_UnknownFlag(t *testing.T) {
	var cl offboarding.Checklist

	_, err := cl.Toggle(offboarding.Flag("locker_cleaned"))
	if !errors.Is(err, offboarding.ErrUnknownFlag) {
		t.Fatalf("expected ErrUnknownFlag, got %v", err)
	}

	var unknownErr *offboarding.UnknownFlagError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownFlagError, got %T", err)
	}
	if unknownErr.Name != "locker_cleaned" {
		t.Errorf("error names %q", unknownErr.Name)
	}

	if _, err := offboarding.ParseFlag("locker_cleaned"); !errors.Is(err, offboarding.ErrUnknownFlag) {
		t.Errorf("ParseFlag accepted an unknown name")
	}
	if _, err := offboarding.ParseFlag("cobra_notice_sent"); err != nil {
		t.Errorf("ParseFlag rejected a known name: %v", err)
	}
}

func TestChecklist_CompleteAndRemaining(t *testing.T) {
	var cl offboarding.Checklist

	if cl.Complete() {
		t.Fatal("empty checklist reports complete")
	}
	if got := len(cl.Remaining()); got != len(offboarding.AllFlags) {
		t.Fatalf("expected %d remaining, got %d", len(offboarding.AllFlags), got)
	}

	// Check off everything but one
	for _, f := range offboarding.AllFlags[:len(offboarding.AllFlags)-1] {
		var err error
		cl, err = cl.Set(f, true)
		if err != nil {
			t.Fatalf("set %s: %v", f, err)
		}
	}
	if cl.Complete() {
		t.Error("checklist with one open task reports complete")
	}
	remaining := cl.Remaining()
	if len(remaining) != 1 || remaining[0] != offboarding.FlagDocumentationFiled {
		t.Errorf("remaining = %v, want [documentation_filed]", remaining)
	}

	cl, _ = cl.Set(offboarding.FlagDocumentationFiled, true)
	if !cl.Complete() {
		t.Error("fully checked list does not report complete")
	}
	if cl.Remaining() != nil {
		t.Errorf("complete checklist still lists remaining: %v", cl.Remaining())
	}
}
