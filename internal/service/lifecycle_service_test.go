package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Mahmoudshee/Niru-DRS/internal/config"
	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/testutil"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gorm.io/gorm"
)

type lifecycleEnv struct {
	db    *gorm.DB
	repos *repository.Repositories
	svc   *LifecycleService
}

func setupLifecycle(t *testing.T) *lifecycleEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewLifecycleService(repos, db, nil)

	testutil.SeedTestUser(t, db, "staff-1", "Staff One", "staff1@test.com", []string{entity.RoleStaff})
	testutil.SeedTestUser(t, db, "staff-2", "Staff Two", "staff2@test.com", []string{entity.RoleStaff})
	testutil.SeedTestUser(t, db, "auth-1", "Authoriser One", "auth1@test.com", []string{entity.RoleAuthoriser})
	testutil.SeedTestUser(t, db, "appr-1", "Approver One", "appr1@test.com", []string{entity.RoleApprover})
	testutil.SeedTestUser(t, db, "admin-1", "Admin One", "admin1@test.com", []string{entity.RoleAdmin})

	return &lifecycleEnv{db: db, repos: repos, svc: svc}
}

func basicSubmit() *SubmitRequest {
	return &SubmitRequest{
		Date:     "2025-06-01",
		Activity: "Field training workshop",
		Items: []SubmitItem{
			{Description: "Flip charts", Quantity: 10, UnitPrice: 250},
			{Description: "Marker pens", Quantity: 20, UnitPrice: 50},
		},
	}
}

func TestSubmitRecomputesTotals(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req, err := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if req.Status != entity.StatusPending {
		t.Errorf("expected status pending, got %s", req.Status)
	}
	if req.TotalAmount != 3500 {
		t.Errorf("expected total 3500, got %v", req.TotalAmount)
	}
	for _, item := range req.Items {
		if item.TotalPrice != item.Quantity*item.UnitPrice {
			t.Errorf("item %s total %v, want %v", item.Description, item.TotalPrice, item.Quantity*item.UnitPrice)
		}
	}
	if req.Code == "" {
		t.Error("expected generated code")
	}

	logs, err := env.repos.AuditLog.FindByRequisition(ctx, req.ID)
	if err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != entity.ActionCreated {
		t.Errorf("expected single created audit entry, got %+v", logs)
	}
}

func TestSubmitDuplicateDetection(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	if _, err := env.svc.Submit(ctx, "staff-1", basicSubmit()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	// 行项集合相同（顺序不同、描述大小写不同）视为重复
	dup := basicSubmit()
	dup.Items = []SubmitItem{
		{Description: "  MARKER PENS ", Quantity: 20, UnitPrice: 50},
		{Description: "flip charts", Quantity: 10, UnitPrice: 250},
	}
	if _, err := env.svc.Submit(ctx, "staff-1", dup); !errors.Is(err, ErrDuplicateRequisition) {
		t.Errorf("expected ErrDuplicateRequisition, got %v", err)
	}

	// 数量不同则不算重复，即便总额相同也要行项集合一致才算
	different := basicSubmit()
	different.Items = []SubmitItem{
		{Description: "Flip charts", Quantity: 14, UnitPrice: 250},
	}
	if _, err := env.svc.Submit(ctx, "staff-1", different); err != nil {
		t.Errorf("expected submit to pass, got %v", err)
	}

	// 不同提交人不算重复
	if _, err := env.svc.Submit(ctx, "staff-2", basicSubmit()); err != nil {
		t.Errorf("different staff should not be a duplicate, got %v", err)
	}
}

func TestSubmitEditExcludesOriginal(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	original, err := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// 编辑重提：同内容但携带原单ID，不触发查重
	edited := basicSubmit()
	edited.OriginalRequisitionID = &original.ID
	if _, err := env.svc.Submit(ctx, "staff-1", edited); err != nil {
		t.Errorf("edited resubmit should pass duplicate check, got %v", err)
	}
}

func TestSubmitBlockedByUnliquidated(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	testutil.SeedTestRequisition(t, env.db, "req-appr", "staff-1", entity.StatusApproved, nil)

	if _, err := env.svc.Submit(ctx, "staff-1", basicSubmit()); !errors.Is(err, ErrBlockedByUnliquidated) {
		t.Errorf("expected ErrBlockedByUnliquidated, got %v", err)
	}

	// 核销完成后解锁
	if err := env.db.Model(&entity.Requisition{}).Where("id = ?", "req-appr").
		Update("liquidation_status", entity.LiquidationLiquidated).Error; err != nil {
		t.Fatalf("update liquidation: %v", err)
	}
	if _, err := env.svc.Submit(ctx, "staff-1", basicSubmit()); err != nil {
		t.Errorf("expected submit after liquidation, got %v", err)
	}
}

func TestTransitionFullPath(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req, err := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	authorized, err := env.svc.Transition(ctx, req.ID, entity.StatusAuthorized, "auth-1", entity.RoleAuthoriser, "looks fine")
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if authorized.Status != entity.StatusAuthorized {
		t.Errorf("expected authorized, got %s", authorized.Status)
	}
	if authorized.AuthorizedAt == nil || authorized.AuthoriserNotes != "looks fine" {
		t.Errorf("authoriser stage not stamped: %+v", authorized)
	}

	approved, err := env.svc.Transition(ctx, req.ID, entity.StatusApproved, "appr-1", entity.RoleApprover, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != entity.StatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovedAt == nil {
		t.Error("approver stage not stamped")
	}
	if approved.LiquidationStatus != entity.LiquidationNotLiquidated {
		t.Errorf("expected liquidation not_liquidated after approval, got %q", approved.LiquidationStatus)
	}

	logs, err := env.repos.AuditLog.FindByRequisition(ctx, req.ID)
	if err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(logs))
	}
	wantActions := []string{entity.ActionCreated, entity.ActionAuthorized, entity.ActionApproved}
	for i, want := range wantActions {
		if logs[i].Action != want {
			t.Errorf("audit[%d] action %s, want %s", i, logs[i].Action, want)
		}
	}
}

func TestTransitionGuards(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req, _ := env.svc.Submit(ctx, "staff-1", basicSubmit())

	// pending不能直接approve
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusApproved, "appr-1", entity.RoleApprover, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for pending->approved, got %v", err)
	}

	// 角色不匹配
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusAuthorized, "appr-1", entity.RoleApprover, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for wrong role, got %v", err)
	}

	// 本人不能审批自己的单
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusAuthorized, "staff-1", entity.RoleAuthoriser, ""); !errors.Is(err, ErrSelfActionForbidden) {
		t.Errorf("expected ErrSelfActionForbidden, got %v", err)
	}

	// 终态不可再流转
	env.svc.Transition(ctx, req.ID, entity.StatusRejected, "auth-1", entity.RoleAuthoriser, "no budget")
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusAuthorized, "auth-1", entity.RoleAuthoriser, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from rejected, got %v", err)
	}
}

func TestRejectStampsByStage(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	// pending阶段驳回落authoriser字段
	req1, _ := env.svc.Submit(ctx, "staff-1", basicSubmit())
	rejected1, err := env.svc.Transition(ctx, req1.ID, entity.StatusRejected, "auth-1", entity.RoleAuthoriser, "missing quotes")
	if err != nil {
		t.Fatalf("reject from pending failed: %v", err)
	}
	if rejected1.AuthorizedAt == nil || rejected1.AuthoriserNotes != "missing quotes" {
		t.Errorf("authoriser stage not stamped on rejection: %+v", rejected1)
	}
	if rejected1.ApprovedAt != nil {
		t.Error("approver stage should be untouched")
	}

	// authorized阶段驳回落approver字段
	req2 := testutil.SeedTestRequisition(t, env.db, "req-auth", "staff-1", entity.StatusAuthorized, nil)
	rejected2, err := env.svc.Transition(ctx, req2.ID, entity.StatusRejected, "appr-1", entity.RoleApprover, "over budget")
	if err != nil {
		t.Fatalf("reject from authorized failed: %v", err)
	}
	if rejected2.ApprovedAt == nil || rejected2.ApproverNotes != "over budget" {
		t.Errorf("approver stage not stamped on rejection: %+v", rejected2)
	}
}

func TestToggleLiquidation(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req := testutil.SeedTestRequisition(t, env.db, "req-liq", "staff-1", entity.StatusApproved, nil)

	// 仅限admin
	if _, err := env.svc.ToggleLiquidation(ctx, req.ID, "staff-1", entity.RoleStaff); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("expected ErrAdminOnly, got %v", err)
	}

	on, err := env.svc.ToggleLiquidation(ctx, req.ID, "admin-1", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if on.LiquidationStatus != entity.LiquidationLiquidated || on.LiquidatedBy != "admin-1" || on.LiquidatedAt == nil {
		t.Errorf("liquidation not stamped: %+v", on)
	}

	// 再翻一次恢复原状
	off, err := env.svc.ToggleLiquidation(ctx, req.ID, "admin-1", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if off.LiquidationStatus != entity.LiquidationNotLiquidated || off.LiquidatedBy != "" || off.LiquidatedAt != nil {
		t.Errorf("liquidation not cleared: %+v", off)
	}

	// 非approved单不可核销
	pending := testutil.SeedTestRequisition(t, env.db, "req-pend", "staff-1", entity.StatusPending, nil)
	if _, err := env.svc.ToggleLiquidation(ctx, pending.ID, "admin-1", entity.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for pending, got %v", err)
	}
}

func TestArchiveLiquidationLock(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req := testutil.SeedTestRequisition(t, env.db, "req-lock", "staff-1", entity.StatusApproved, nil)

	// 所有者不能归档自己未核销的已批准单
	if err := env.svc.Archive(ctx, req.ID, "staff-1", entity.RoleStaff, ""); !errors.Is(err, ErrLiquidationLocked) {
		t.Errorf("expected ErrLiquidationLocked, got %v", err)
	}

	// admin不受锁限制
	if err := env.svc.Archive(ctx, req.ID, "admin-1", entity.RoleAdmin, "cleanup"); err != nil {
		t.Fatalf("admin archive failed: %v", err)
	}

	archived, _ := env.repos.Requisition.FindByID(ctx, req.ID)
	if !archived.Archived || archived.ArchivedBy != "admin-1" || archived.ArchivedAt == nil {
		t.Errorf("archive fields not set: %+v", archived)
	}

	// 核销后所有者可归档
	req2 := testutil.SeedTestRequisition(t, env.db, "req-lock2", "staff-1", entity.StatusApproved, nil)
	if _, err := env.svc.ToggleLiquidation(ctx, req2.ID, "admin-1", entity.RoleAdmin); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := env.svc.Archive(ctx, req2.ID, "staff-1", entity.RoleStaff, ""); err != nil {
		t.Errorf("owner archive after liquidation failed: %v", err)
	}
}

func TestArchiveOwnerOrAdmin(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req, err := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := env.svc.Archive(ctx, req.ID, "staff-2", entity.RoleStaff, ""); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner for non-owner staff, got %v", err)
	}
	if err := env.svc.Archive(ctx, req.ID, "auth-1", entity.RoleAuthoriser, ""); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner for authoriser, got %v", err)
	}

	if err := env.svc.Archive(ctx, req.ID, "admin-1", entity.RoleAdmin, "records cleanup"); err != nil {
		t.Fatalf("admin archive failed: %v", err)
	}
	got, err := env.repos.Requisition.FindByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Archived || got.ArchivedBy != "admin-1" {
		t.Errorf("expected archived by admin, got archived=%v by=%s", got.Archived, got.ArchivedBy)
	}
}

func TestClearHistory(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	testutil.SeedTestRequisition(t, env.db, "ch-1", "staff-1", entity.StatusRejected, nil)
	testutil.SeedTestRequisition(t, env.db, "ch-2", "staff-1", entity.StatusPending, nil)
	locked := testutil.SeedTestRequisition(t, env.db, "ch-3", "staff-1", entity.StatusApproved, nil)

	// 任何一单被核销锁定则整个操作失败
	if _, err := env.svc.ClearHistory(ctx, "staff-1", "staff-1", entity.RoleStaff); !errors.Is(err, ErrLiquidationLocked) {
		t.Errorf("expected ErrLiquidationLocked, got %v", err)
	}
	remaining, _ := env.repos.Requisition.FindActiveByOwner(ctx, "staff-1")
	if len(remaining) != 3 {
		t.Errorf("no partial archive expected, %d requisitions left", len(remaining))
	}

	if _, err := env.svc.ToggleLiquidation(ctx, locked.ID, "admin-1", entity.RoleAdmin); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	count, err := env.svc.ClearHistory(ctx, "staff-1", "staff-1", entity.RoleStaff)
	if err != nil {
		t.Fatalf("clear history failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 archived, got %d", count)
	}
}

func TestPermanentlyDelete(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	req, _ := env.svc.Submit(ctx, "staff-1", basicSubmit())

	if err := env.svc.PermanentlyDelete(ctx, req.ID, "staff-1", entity.RoleStaff); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("expected ErrAdminOnly, got %v", err)
	}

	if err := env.svc.PermanentlyDelete(ctx, req.ID, "admin-1", entity.RoleAdmin); err != nil {
		t.Fatalf("permanent delete failed: %v", err)
	}

	if _, err := env.repos.Requisition.FindByID(ctx, req.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected row gone, got %v", err)
	}
	logs, _ := env.repos.AuditLog.FindByRequisition(ctx, req.ID)
	if len(logs) != 0 {
		t.Errorf("expected audit rows deleted, got %d", len(logs))
	}
}

func TestPermanentlyDeleteDocumentCascade(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	var mu sync.Mutex
	failDeletes := true
	var removed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusOK)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if failDeletes {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		removed = append(removed, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	minioClient, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4("test", "test", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}
	var minioCfg config.MinIOConfig
	minioCfg.Bucket = "drs-test"
	env.svc.SetDocumentService(NewDocumentService(minioClient, env.repos.User, minioCfg))

	req, err := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	docs := entity.DocumentRefs{
		{Name: "quote.pdf", Path: "requisitions/2025/06/01/aaaa1111.pdf"},
		{Name: "invoice.pdf", Path: "requisitions/2025/06/01/bbbb2222.pdf"},
	}
	if err := env.db.Model(&entity.Requisition{}).Where("id = ?", req.ID).Update("documents", docs).Error; err != nil {
		t.Fatalf("attach documents: %v", err)
	}

	// 对象删除失败中止整个操作，行和审计日志保持原样
	if err := env.svc.PermanentlyDelete(ctx, req.ID, "admin-1", entity.RoleAdmin); !errors.Is(err, ErrPermanentDeleteFailed) {
		t.Fatalf("expected ErrPermanentDeleteFailed, got %v", err)
	}
	if _, err := env.repos.Requisition.FindByID(ctx, req.ID); err != nil {
		t.Errorf("row should survive failed document delete: %v", err)
	}
	logs, _ := env.repos.AuditLog.FindByRequisition(ctx, req.ID)
	if len(logs) == 0 {
		t.Error("audit entries should survive failed document delete")
	}

	mu.Lock()
	failDeletes = false
	mu.Unlock()

	if err := env.svc.PermanentlyDelete(ctx, req.ID, "admin-1", entity.RoleAdmin); err != nil {
		t.Fatalf("permanent delete failed: %v", err)
	}
	mu.Lock()
	objectDeletes := len(removed)
	mu.Unlock()
	if objectDeletes != 2 {
		t.Errorf("expected 2 object deletes, got %d", objectDeletes)
	}
	if _, err := env.repos.Requisition.FindByID(ctx, req.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected row gone, got %v", err)
	}
	if logs, _ := env.repos.AuditLog.FindByRequisition(ctx, req.ID); len(logs) != 0 {
		t.Errorf("expected audit rows deleted, got %d", len(logs))
	}
}

func TestPermanentlyDeleteAllArchived(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	for _, id := range []string{"pa-1", "pa-2"} {
		r := testutil.SeedTestRequisition(t, env.db, id, "staff-1", entity.StatusRejected, nil)
		if err := env.svc.Archive(ctx, r.ID, "staff-1", entity.RoleStaff, ""); err != nil {
			t.Fatalf("archive failed: %v", err)
		}
	}
	testutil.SeedTestRequisition(t, env.db, "pa-live", "staff-1", entity.StatusPending, nil)

	count, err := env.svc.PermanentlyDeleteAllArchived(ctx, "admin-1", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("delete all archived failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 deleted, got %d", count)
	}

	// 未归档的不受影响
	if _, err := env.repos.Requisition.FindByID(ctx, "pa-live"); err != nil {
		t.Errorf("live requisition should remain: %v", err)
	}
}

func TestListForRoleScoping(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	testutil.SeedTestRequisition(t, env.db, "ls-1", "staff-1", entity.StatusPending, nil)
	testutil.SeedTestRequisition(t, env.db, "ls-2", "staff-2", entity.StatusAuthorized, nil)
	testutil.SeedTestRequisition(t, env.db, "ls-3", "staff-2", entity.StatusApproved, nil)

	staffItems, _, err := env.svc.ListForRole(ctx, entity.RoleStaff, "staff-1", false, 1, 20)
	if err != nil {
		t.Fatalf("staff list failed: %v", err)
	}
	if len(staffItems) != 1 || staffItems[0].ID != "ls-1" {
		t.Errorf("staff should only see own requisitions, got %d", len(staffItems))
	}

	// approver看不到pending
	apprItems, _, err := env.svc.ListForRole(ctx, entity.RoleApprover, "appr-1", false, 1, 20)
	if err != nil {
		t.Fatalf("approver list failed: %v", err)
	}
	if len(apprItems) != 2 {
		t.Errorf("approver should see 2 requisitions, got %d", len(apprItems))
	}
	for _, item := range apprItems {
		if item.Status == entity.StatusPending {
			t.Error("approver must not see pending requisitions")
		}
	}

	adminItems, _, err := env.svc.ListForRole(ctx, entity.RoleAdmin, "admin-1", false, 1, 20)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(adminItems) != 3 {
		t.Errorf("admin should see all, got %d", len(adminItems))
	}
}

func TestBuildExportPayload(t *testing.T) {
	env := setupLifecycle(t)
	ctx := context.Background()

	if err := env.db.Model(&entity.User{}).Where("id = ?", "auth-1").
		Update("signature_url", "https://cdn.test/sig-auth.png").Error; err != nil {
		t.Fatalf("set signature: %v", err)
	}

	req, _ := env.svc.Submit(ctx, "staff-1", basicSubmit())
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusAuthorized, "auth-1", entity.RoleAuthoriser, ""); err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if _, err := env.svc.Transition(ctx, req.ID, entity.StatusApproved, "appr-1", entity.RoleApprover, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	payload, err := env.svc.BuildExportPayload(ctx, req.ID)
	if err != nil {
		t.Fatalf("export payload failed: %v", err)
	}
	if payload.AuthoriserName != "Authoriser One" || payload.AuthoriserSignature != "https://cdn.test/sig-auth.png" {
		t.Errorf("authoriser signer not resolved: %+v", payload)
	}
	if payload.ApproverName != "Approver One" {
		t.Errorf("approver signer not resolved: %+v", payload)
	}
}
