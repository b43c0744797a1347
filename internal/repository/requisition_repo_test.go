package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/testutil"
)

func TestTransitionStatusConditionalUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequisitionRepository(db)
	ctx := context.Background()

	req := testutil.SeedTestRequisition(t, db, "ts-1", "staff-1", entity.StatusPending, nil)

	fields := map[string]interface{}{
		"status":     entity.StatusAuthorized,
		"updated_at": time.Now(),
	}
	updated, err := repo.TransitionStatus(ctx, nil, req.ID, entity.StatusPending, fields)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !updated {
		t.Fatal("expected first transition to apply")
	}

	// 第二次以同样的期望前驱状态更新必须落空
	updated, err = repo.TransitionStatus(ctx, nil, req.ID, entity.StatusPending, fields)
	if err != nil {
		t.Fatalf("second transition errored: %v", err)
	}
	if updated {
		t.Error("expected stale transition to be a no-op")
	}

	got, err := repo.FindByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.Status != entity.StatusAuthorized {
		t.Errorf("status %s, want authorized", got.Status)
	}
}

func TestGenerateCodeSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequisitionRepository(db)
	ctx := context.Background()

	first, err := repo.GenerateCode(ctx)
	if err != nil {
		t.Fatalf("generate code failed: %v", err)
	}
	year := time.Now().Format("2006")
	want := fmt.Sprintf("REQ-%s-0001", year)
	if first != want {
		t.Errorf("first code %s, want %s", first, want)
	}

	testutil.SeedTestRequisition(t, db, "gc-1", "staff-1", entity.StatusPending, nil)
	r := &entity.Requisition{}
	if err := db.Model(r).Where("id = ?", "gc-1").Update("code", first).Error; err != nil {
		t.Fatalf("set code: %v", err)
	}

	second, err := repo.GenerateCode(ctx)
	if err != nil {
		t.Fatalf("generate second code failed: %v", err)
	}
	if second != fmt.Sprintf("REQ-%s-0002", year) {
		t.Errorf("second code %s, want REQ-%s-0002", second, year)
	}
}

func TestFindDuplicatesExcludesArchivedAndSelf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequisitionRepository(db)
	ctx := context.Background()

	items := entity.RequisitionItems{
		{ID: "1", Description: "Projector", Quantity: 1, UnitPrice: 45000, TotalPrice: 45000},
	}
	a := testutil.SeedTestRequisition(t, db, "dup-a", "staff-1", entity.StatusPending, items)

	dups, err := repo.FindDuplicates(ctx, a.StaffID, a.Date, a.Activity, a.TotalAmount, "")
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if len(dups) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(dups))
	}

	// 排除自身（编辑重提场景）
	dups, err = repo.FindDuplicates(ctx, a.StaffID, a.Date, a.Activity, a.TotalAmount, a.ID)
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if len(dups) != 0 {
		t.Errorf("expected self excluded, got %d", len(dups))
	}

	// 已归档的不参与查重
	if err := db.Model(&entity.Requisition{}).Where("id = ?", a.ID).Update("archived", true).Error; err != nil {
		t.Fatalf("archive: %v", err)
	}
	dups, err = repo.FindDuplicates(ctx, a.StaffID, a.Date, a.Activity, a.TotalAmount, "")
	if err != nil {
		t.Fatalf("find duplicates failed: %v", err)
	}
	if len(dups) != 0 {
		t.Errorf("expected archived excluded, got %d", len(dups))
	}
}

func TestFindByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRequisitionRepository(db)

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
