package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MOE349/tenmil-backend/internal/parts/entity"
	"github.com/MOE349/tenmil-backend/internal/parts/repository"
	"github.com/MOE349/tenmil-backend/internal/parts/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type requestFixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	svc   *PartRequestService

	part     *entity.Part
	location *entity.Location
	wo       *entity.WorkOrder
	batch    *entity.InventoryBatch
}

func setupRequestTest(t *testing.T) *requestFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	part := testutil.SeedPart(t, db, "FLT-200", "Hydraulic Filter")
	location := testutil.SeedLocation(t, db, "WH1", "Main Warehouse")
	return &requestFixture{
		db:       db,
		repos:    repos,
		svc:      NewPartRequestService(repos, db, zap.NewNop()),
		part:     part,
		location: location,
		wo:       testutil.SeedWorkOrder(t, db, "WO-2001"),
		batch: testutil.SeedBatch(t, db, part.ID, location.ID, 20, "8.00",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (f *requestFixture) create(t *testing.T, qty int64) *entity.PartRequest {
	t.Helper()
	request, err := f.svc.Create(context.Background(), CreatePartRequestRequest{
		WorkOrderID: f.wo.ID,
		PartID:      f.part.ID,
		LocationID:  f.location.ID,
		QtyNeeded:   qty,
	}, "mechanic")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return request
}

func (f *requestFixture) reserved(t *testing.T) int64 {
	t.Helper()
	batch, err := f.repos.Batch.GetByID(f.db, f.batch.ID)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	return batch.QtyReserved
}

func TestPartRequestMarkAvailableReservesStock(t *testing.T) {
	f := setupRequestTest(t)
	request := f.create(t, 5)

	updated, err := f.svc.MarkAvailable(context.Background(), request.ID, MarkAvailableRequest{
		BatchID: f.batch.ID,
		Qty:     5,
	})
	if err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}
	if updated.Status != entity.RequestStatusAvailable {
		t.Errorf("expected AVAILABLE, got %s", updated.Status)
	}
	if got := f.reserved(t); got != 5 {
		t.Errorf("expected 5 reserved, got %d", got)
	}
}

func TestPartRequestMarkAvailableOverReserve(t *testing.T) {
	f := setupRequestTest(t)
	request := f.create(t, 50)

	_, err := f.svc.MarkAvailable(context.Background(), request.ID, MarkAvailableRequest{
		BatchID: f.batch.ID,
		Qty:     50,
	})
	var stockErr *entity.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if got := f.reserved(t); got != 0 {
		t.Errorf("failed reservation must not hold stock, got %d", got)
	}
}

func TestPartRequestMarkAvailableWrongPart(t *testing.T) {
	f := setupRequestTest(t)
	other := testutil.SeedPart(t, f.db, "GSK-9", "Gasket")
	otherBatch := testutil.SeedBatch(t, f.db, other.ID, f.location.ID, 10, "1.00",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	request := f.create(t, 2)

	_, err := f.svc.MarkAvailable(context.Background(), request.ID, MarkAvailableRequest{
		BatchID: otherBatch.ID,
		Qty:     2,
	})
	var invalidOp *entity.InvalidOperationError
	if !errors.As(err, &invalidOp) {
		t.Fatalf("expected InvalidOperationError for mismatched part, got %v", err)
	}
}

func TestPartRequestDeliverReleasesReservation(t *testing.T) {
	f := setupRequestTest(t)
	request := f.create(t, 4)
	if _, err := f.svc.MarkAvailable(context.Background(), request.ID, MarkAvailableRequest{
		BatchID: f.batch.ID, Qty: 4,
	}); err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}

	delivered, err := f.svc.Deliver(context.Background(), request.ID, DeliverRequest{})
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if delivered.Status != entity.RequestStatusDelivered || delivered.QtyDelivered != 4 {
		t.Errorf("unexpected state after deliver: %s qty=%d", delivered.Status, delivered.QtyDelivered)
	}
	if got := f.reserved(t); got != 0 {
		t.Errorf("delivery must release reservation, got %d", got)
	}
}

func TestPartRequestCancelFlow(t *testing.T) {
	f := setupRequestTest(t)

	// 仅申请状态: 直接终结
	requested := f.create(t, 3)
	result, err := f.svc.Cancel(context.Background(), requested.ID, CancelRequest{})
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result.CancelType != entity.CancelTypeFull {
		t.Errorf("expected full cancel, got %s", result.CancelType)
	}
	if result.IsRequested || result.IsAvailable {
		t.Errorf("fully cancelled request must project no active flags: %+v", result)
	}
	if result.QtyNeeded != 0 {
		t.Errorf("full cancel must zero qty_needed, got %d", result.QtyNeeded)
	}

	// 已备料状态: 进入待确认，释放预留但保留暂存量视图
	staged := f.create(t, 6)
	if _, err := f.svc.MarkAvailable(context.Background(), staged.ID, MarkAvailableRequest{
		BatchID: f.batch.ID, Qty: 6,
	}); err != nil {
		t.Fatalf("MarkAvailable failed: %v", err)
	}
	result2, err := f.svc.Cancel(context.Background(), staged.ID, CancelRequest{})
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result2.CancelType != entity.CancelTypeAwaitingAck {
		t.Errorf("expected awaiting-ack cancel, got %s", result2.CancelType)
	}
	if !result2.IsAvailable || result2.IsRequested {
		t.Errorf("awaiting-ack must project is_available only: %+v", result2)
	}
	if result2.QtyAvailable != 6 {
		t.Errorf("awaiting-ack must keep staged qty, got %d", result2.QtyAvailable)
	}
	if got := f.reserved(t); got != 0 {
		t.Errorf("cancel must release reservation, got %d", got)
	}

	// 交付入口完成取消确认
	acked, err := f.svc.Deliver(context.Background(), staged.ID, DeliverRequest{})
	if err != nil {
		t.Fatalf("acknowledge via deliver failed: %v", err)
	}
	if acked.Status != entity.RequestStatusCancelled {
		t.Errorf("expected CANCELLED after ack, got %s", acked.Status)
	}
}

func TestPartRequestCancelOrderedRejected(t *testing.T) {
	f := setupRequestTest(t)
	request := f.create(t, 2)
	if _, err := f.svc.MarkOrdered(context.Background(), request.ID, MarkOrderedRequest{Qty: 2}); err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}

	_, err := f.svc.Cancel(context.Background(), request.ID, CancelRequest{})
	var invalidOp *entity.InvalidOperationError
	if !errors.As(err, &invalidOp) {
		t.Fatalf("expected InvalidOperationError, got %v", err)
	}
}

func TestPartRequestCancelAppendsNotes(t *testing.T) {
	f := setupRequestTest(t)
	request, err := f.svc.Create(context.Background(), CreatePartRequestRequest{
		WorkOrderID: f.wo.ID,
		PartID:      f.part.ID,
		LocationID:  f.location.ID,
		QtyNeeded:   2,
		Notes:       "urgent",
	}, "mechanic")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.svc.Cancel(context.Background(), request.ID, CancelRequest{
		Notes: "work order descoped",
	}); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	cancelled, err := f.svc.Get(request.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if cancelled.Notes != "urgent\nwork order descoped" {
		t.Errorf("cancel notes must append to existing notes, got %q", cancelled.Notes)
	}
}
