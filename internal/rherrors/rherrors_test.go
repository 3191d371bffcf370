package rherrors

import (
	"errors"
	"testing"
)

func TestNoPathAs(t *testing.T) {
	err := NewNoPath("net-0", ReasonBlocked)

	var np *NoPath
	if !errors.As(err, &np) {
		t.Fatalf("expected errors.As to match *NoPath")
	}
	if np.NetworkID != "net-0" || np.Reason != ReasonBlocked {
		t.Fatalf("unexpected NoPath fields: %+v", np)
	}
}

func TestInternalWrapsStack(t *testing.T) {
	cause := errors.New("boom")
	err := WrapInternal(cause, "building schematic")

	var ie *InternalErr
	if !errors.As(err, &ie) {
		t.Fatalf("expected errors.As to match *InternalErr")
	}
	if ie.Msg != "building schematic" {
		t.Fatalf("unexpected message: %s", ie.Msg)
	}
}
