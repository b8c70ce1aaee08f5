package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
)

func setupTestTaxonomyService() (TaxonomyService, *mockWorklogRepo, *mockNotifier) {
	wtRepo := newMockWorkTypeRepo()
	worklogRepo := newMockWorklogRepo()
	repo := &repository.Repository{
		Worklog:  worklogRepo,
		Unit:     newMockUnitRepo(wtRepo),
		WorkType: wtRepo,
	}
	notifier := &mockNotifier{}
	return NewTaxonomyService(repo, notifier, zap.NewNop()), worklogRepo, notifier
}

// ── 单元 ──

func TestTaxonomyService_CreateUnit_Success(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	unit, err := svc.CreateUnit(context.Background(), &dto.UnitCreateRequest{
		Name:      "第2ユニット",
		WorkTypes: []string{"組立", "検査"},
	})
	if err != nil {
		t.Fatalf("CreateUnit 应成功: %v", err)
	}
	if unit.Name != "第2ユニット" {
		t.Errorf("期望name=第2ユニット，实际=%s", unit.Name)
	}
	if len(unit.WorkTypes) != 2 {
		t.Errorf("期望2个工事区分，实际=%v", unit.WorkTypes)
	}
}

func TestTaxonomyService_MutationsBroadcastMasterUpdated(t *testing.T) {
	svc, _, notifier := setupTestTaxonomyService()

	unit, err := svc.CreateUnit(context.Background(), &dto.UnitCreateRequest{Name: "第2ユニット"})
	if err != nil {
		t.Fatalf("CreateUnit 应成功: %v", err)
	}
	if len(notifier.broadcasts) != 1 || notifier.broadcasts[0].EventType != "master_updated" {
		t.Fatalf("创建单元后应广播 master_updated，实际=%+v", notifier.broadcasts)
	}

	if _, err := svc.UpdateUnit(context.Background(), unit.ID, &dto.UnitUpdateRequest{
		Name: strPtr("第3ユニット"),
	}); err != nil {
		t.Fatalf("UpdateUnit 应成功: %v", err)
	}
	if err := svc.DeleteUnit(context.Background(), unit.ID); err != nil {
		t.Fatalf("DeleteUnit 应成功: %v", err)
	}
	if _, err := svc.CreateWorkType(context.Background(), &dto.WorkTypeCreateRequest{Name: "梱包"}); err != nil {
		t.Fatalf("CreateWorkType 应成功: %v", err)
	}
	if len(notifier.broadcasts) != 4 {
		t.Errorf("每次主数据变更都应广播一次，实际=%d", len(notifier.broadcasts))
	}

	// 查询不触发广播
	if _, err := svc.ListUnits(context.Background()); err != nil {
		t.Fatalf("ListUnits 应成功: %v", err)
	}
	if len(notifier.broadcasts) != 4 {
		t.Errorf("查询不应广播，实际=%d", len(notifier.broadcasts))
	}
}

func TestTaxonomyService_CreateUnit_NameExists(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	_, err := svc.CreateUnit(context.Background(), &dto.UnitCreateRequest{
		Name: "第1ユニット",
	})
	if !errors.Is(err, ErrUnitNameExists) {
		t.Errorf("期望 ErrUnitNameExists，实际: %v", err)
	}
}

func TestTaxonomyService_CreateUnit_UnknownWorkType(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	_, err := svc.CreateUnit(context.Background(), &dto.UnitCreateRequest{
		Name:      "第3ユニット",
		WorkTypes: []string{"未登録区分"},
	})
	if !errors.Is(err, ErrWorkTypeNotFound) {
		t.Errorf("期望 ErrWorkTypeNotFound，实际: %v", err)
	}
}

func TestTaxonomyService_UpdateUnit_RenameAndReplaceWorkTypes(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	updated, err := svc.UpdateUnit(context.Background(), 1, &dto.UnitUpdateRequest{
		Name:      strPtr("組立ユニット"),
		WorkTypes: []string{"組立"},
	})
	if err != nil {
		t.Fatalf("UpdateUnit 应成功: %v", err)
	}
	if updated.Name != "組立ユニット" {
		t.Errorf("期望name=組立ユニット，实际=%s", updated.Name)
	}
	if len(updated.WorkTypes) != 1 || updated.WorkTypes[0] != "組立" {
		t.Errorf("工事区分应被替换为[組立]，实际=%v", updated.WorkTypes)
	}
}

func TestTaxonomyService_UpdateUnit_NilWorkTypesUnchanged(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	// WorkTypes 为 nil 表示不变更关联
	updated, err := svc.UpdateUnit(context.Background(), 1, &dto.UnitUpdateRequest{
		Name: strPtr("改名ユニット"),
	})
	if err != nil {
		t.Fatalf("UpdateUnit 应成功: %v", err)
	}
	if len(updated.WorkTypes) != 3 {
		t.Errorf("nil 时关联应保持3个，实际=%v", updated.WorkTypes)
	}
}

func TestTaxonomyService_UpdateUnit_NotFound(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	_, err := svc.UpdateUnit(context.Background(), 999, &dto.UnitUpdateRequest{
		Name: strPtr("x"),
	})
	if !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("期望 ErrUnitNotFound，实际: %v", err)
	}
}

func TestTaxonomyService_DeleteUnit_InUse(t *testing.T) {
	svc, worklogRepo, _ := setupTestTaxonomyService()

	// 被工数记录引用的单元不可删除
	worklogRepo.Create(context.Background(), &model.WorkLog{
		EmployeeID: "1001", WorkDate: time.Now(),
		UnitName: "第1ユニット", WorkType: "組立", Minutes: 60,
		BaseStatus: model.BaseStatusApproved,
	})
	err := svc.DeleteUnit(context.Background(), 1)
	if !errors.Is(err, ErrUnitInUse) {
		t.Errorf("期望 ErrUnitInUse，实际: %v", err)
	}
}

func TestTaxonomyService_DeleteUnit_Success(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	if err := svc.DeleteUnit(context.Background(), 1); err != nil {
		t.Fatalf("DeleteUnit 应成功: %v", err)
	}
	units, err := svc.ListUnits(context.Background())
	if err != nil {
		t.Fatalf("ListUnits 应成功: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("删除后应无单元，实际=%d", len(units))
	}
}

// ── 工事区分 ──

func TestTaxonomyService_CreateWorkType_Success(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	wt, err := svc.CreateWorkType(context.Background(), &dto.WorkTypeCreateRequest{Name: "塗装"})
	if err != nil {
		t.Fatalf("CreateWorkType 应成功: %v", err)
	}
	if wt.Name != "塗装" {
		t.Errorf("期望name=塗装，实际=%s", wt.Name)
	}
}

func TestTaxonomyService_CreateWorkType_NameExists(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	_, err := svc.CreateWorkType(context.Background(), &dto.WorkTypeCreateRequest{Name: "組立"})
	if !errors.Is(err, ErrWorkTypeNameExists) {
		t.Errorf("期望 ErrWorkTypeNameExists，实际: %v", err)
	}
}

func TestTaxonomyService_UpdateWorkType_Rename(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	wt, err := svc.UpdateWorkType(context.Background(), 1, &dto.WorkTypeUpdateRequest{Name: "本組立"})
	if err != nil {
		t.Fatalf("UpdateWorkType 应成功: %v", err)
	}
	if wt.Name != "本組立" {
		t.Errorf("期望name=本組立，实际=%s", wt.Name)
	}
}

func TestTaxonomyService_DeleteWorkType_InUse(t *testing.T) {
	svc, worklogRepo, _ := setupTestTaxonomyService()

	worklogRepo.Create(context.Background(), &model.WorkLog{
		EmployeeID: "1001", WorkDate: time.Now(),
		UnitName: "第1ユニット", WorkType: "検査", Minutes: 30,
		BaseStatus: model.BaseStatusApproved,
	})
	err := svc.DeleteWorkType(context.Background(), 2) // 検査
	if !errors.Is(err, ErrWorkTypeInUse) {
		t.Errorf("期望 ErrWorkTypeInUse，实际: %v", err)
	}
}

func TestTaxonomyService_DeleteWorkType_Success(t *testing.T) {
	svc, _, _ := setupTestTaxonomyService()

	if err := svc.DeleteWorkType(context.Background(), 2); err != nil {
		t.Fatalf("DeleteWorkType 应成功: %v", err)
	}
	list, err := svc.ListWorkTypes(context.Background())
	if err != nil {
		t.Fatalf("ListWorkTypes 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("删除后应剩2个工事区分，实际=%d", len(list))
	}
}
