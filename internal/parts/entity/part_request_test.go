package entity

import (
	"errors"
	"testing"
)

func newRequestedRequest(t *testing.T, qty int64) *PartRequest {
	t.Helper()
	r := &PartRequest{Status: RequestStatusNew}
	if err := r.MarkRequested(qty); err != nil {
		t.Fatalf("MarkRequested failed: %v", err)
	}
	return r
}

func TestPartRequestLifecycle(t *testing.T) {
	r := newRequestedRequest(t, 5)
	if r.Status != RequestStatusRequested || r.QtyNeeded != 5 {
		t.Fatalf("unexpected state after request: %s qty=%d", r.Status, r.QtyNeeded)
	}
	if !r.IsRequested() || r.IsAvailable() || r.IsOrdered() || r.IsDelivered() {
		t.Errorf("derived flags wrong for REQUESTED: %+v", r)
	}

	if err := r.MarkAvailable("batch-1", 5); err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}
	if r.Status != RequestStatusAvailable || r.QtyAvailable != 5 || r.BatchID == nil {
		t.Fatalf("unexpected state after available: %+v", r)
	}
	if !r.IsRequested() || !r.IsAvailable() {
		t.Errorf("derived flags wrong for AVAILABLE")
	}

	if err := r.MarkOrdered(5); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}
	if !r.IsOrdered() || r.IsDelivered() {
		t.Errorf("derived flags wrong for ORDERED")
	}

	if err := r.MarkDelivered(5); err != nil {
		t.Fatalf("MarkDelivered failed: %v", err)
	}
	if r.Status != RequestStatusDelivered || r.QtyDelivered != 5 {
		t.Fatalf("unexpected state after deliver: %+v", r)
	}
	if !r.IsRequested() || !r.IsAvailable() || !r.IsOrdered() || !r.IsDelivered() {
		t.Errorf("derived flags wrong for DELIVERED")
	}
}

func TestPartRequestMarkRequestedValidation(t *testing.T) {
	r := &PartRequest{Status: RequestStatusNew}
	if err := r.MarkRequested(0); err == nil {
		t.Error("expected error for zero quantity")
	}
	r2 := newRequestedRequest(t, 3)
	if err := r2.MarkRequested(3); err == nil {
		t.Error("expected error for double request")
	}
}

func TestPartRequestCancelRequested(t *testing.T) {
	r := newRequestedRequest(t, 5)
	out, err := r.Cancel()
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if out.CancelType != CancelTypeFull {
		t.Errorf("expected full cancel, got %s", out.CancelType)
	}
	if out.ReleaseQty != 0 || out.ReleaseFrom != "" {
		t.Errorf("requested-only cancel should release nothing: %+v", out)
	}
	if r.Status != RequestStatusCancelled || r.QtyNeeded != 0 {
		t.Errorf("unexpected state after cancel: %s qty_needed=%d", r.Status, r.QtyNeeded)
	}
	if r.IsRequested() || r.IsAvailable() {
		t.Errorf("cancelled request should show no active flags")
	}
}

func TestPartRequestCancelAvailable(t *testing.T) {
	r := newRequestedRequest(t, 5)
	if err := r.MarkAvailable("batch-1", 4); err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}

	out, err := r.Cancel()
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if out.CancelType != CancelTypeAwaitingAck {
		t.Errorf("expected awaiting-ack cancel, got %s", out.CancelType)
	}
	if out.ReleaseQty != 4 || out.ReleaseFrom != "batch-1" {
		t.Errorf("expected reservation release of 4 from batch-1, got %+v", out)
	}
	if r.Status != RequestStatusCancelledAwaitingAck {
		t.Errorf("unexpected status: %s", r.Status)
	}
	// 备料方确认前仍能看到暂存数量与批次
	if r.QtyAvailable != 4 || r.BatchID == nil {
		t.Errorf("awaiting-ack cancel must keep staged qty and batch link")
	}
	if !r.IsAvailable() {
		t.Errorf("awaiting-ack request should still project is_available")
	}
	if r.IsRequested() {
		t.Errorf("awaiting-ack request should not project is_requested")
	}

	if err := r.AcknowledgeCancel(); err != nil {
		t.Fatalf("AcknowledgeCancel failed: %v", err)
	}
	if r.Status != RequestStatusCancelled || r.QtyAvailable != 0 || r.QtyNeeded != 0 {
		t.Errorf("unexpected state after ack: %+v", r)
	}
}

func TestPartRequestCancelRejectedStates(t *testing.T) {
	ordered := newRequestedRequest(t, 5)
	if err := ordered.MarkOrdered(5); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}
	if _, err := ordered.Cancel(); err == nil {
		t.Error("expected cancel of ordered request to fail")
	} else {
		var invalidOp *InvalidOperationError
		if !errors.As(err, &invalidOp) {
			t.Errorf("expected InvalidOperationError, got %T", err)
		}
	}

	delivered := newRequestedRequest(t, 5)
	if err := delivered.MarkAvailable("b", 5); err != nil {
		t.Fatal(err)
	}
	if err := delivered.MarkDelivered(5); err != nil {
		t.Fatal(err)
	}
	if _, err := delivered.Cancel(); err == nil {
		t.Error("expected cancel of delivered request to fail")
	}

	cancelled := newRequestedRequest(t, 5)
	if _, err := cancelled.Cancel(); err != nil {
		t.Fatal(err)
	}
	if _, err := cancelled.Cancel(); err == nil {
		t.Error("expected second cancel to fail")
	}
}

func TestPartRequestAcknowledgeWrongState(t *testing.T) {
	r := newRequestedRequest(t, 2)
	if err := r.AcknowledgeCancel(); err == nil {
		t.Error("expected acknowledge on non-awaiting request to fail")
	}
}
