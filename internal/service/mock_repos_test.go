package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
	"github.com/Fusion-Mind-co/worklog-system/internal/sse"
	pkgerrors "github.com/Fusion-Mind-co/worklog-system/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	m := &mockUserRepo{users: make(map[int]*model.User), nextID: 1}
	// 初期数据：一般成员 + 承认者
	m.users[1] = &model.User{
		ID: 1, EmployeeID: "1001", Name: "田中太郎",
		DepartmentName: "製造部", Position: "一般", RoleLevel: 1,
		DefaultUnit: "第1ユニット", SoundEnabled: true,
	}
	m.users[2] = &model.User{
		ID: 2, EmployeeID: "2001", Name: "佐藤課長",
		DepartmentName: "製造部", Position: "課長", RoleLevel: 2,
		SoundEnabled: true,
	}
	m.nextID = 3
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, q repository.UserQuery) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if q.Department != "" && u.DepartmentName != q.Department {
			continue
		}
		if q.Keyword != "" && !strings.Contains(u.EmployeeID, q.Keyword) && !strings.Contains(u.Name, q.Keyword) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

func (m *mockUserRepo) ListByMinRoleLevel(_ context.Context, minRoleLevel int) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.RoleLevel >= minRoleLevel {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int) error {
	delete(m.users, id)
	return nil
}

// ── Mock WorklogRepository ──

type mockWorklogRepo struct {
	logs   map[int]*model.WorkLog
	nextID int
	// conflictNext 为 true 时，下一次 Update 模拟并发写入者抢先推进版本
	conflictNext bool
}

func newMockWorklogRepo() *mockWorklogRepo {
	return &mockWorklogRepo{logs: make(map[int]*model.WorkLog), nextID: 1}
}

func (m *mockWorklogRepo) Create(_ context.Context, log *model.WorkLog) error {
	log.ID = m.nextID
	m.nextID++
	if log.Version == 0 {
		log.Version = 1
	}
	now := time.Now()
	log.CreatedAt = now
	log.UpdatedAt = now
	cp := *log
	m.logs[log.ID] = &cp
	return nil
}

func (m *mockWorklogRepo) GetByID(_ context.Context, id int) (*model.WorkLog, error) {
	if l, ok := m.logs[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorklogRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) ([]model.WorkLog, error) {
	var result []model.WorkLog
	for _, l := range m.logs {
		if l.EmployeeID == employeeID && l.WorkDate.Format("2006-01-02") == date.Format("2006-01-02") {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockWorklogRepo) ReplaceDrafts(ctx context.Context, employeeID string, date time.Time, rows []model.WorkLog) error {
	for id, l := range m.logs {
		if l.EmployeeID == employeeID &&
			l.WorkDate.Format("2006-01-02") == date.Format("2006-01-02") &&
			l.BaseStatus == model.BaseStatusDraft &&
			l.RequestAction == model.ActionNone {
			delete(m.logs, id)
		}
	}
	for i := range rows {
		if err := m.Create(ctx, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockWorklogRepo) Update(_ context.Context, log *model.WorkLog) error {
	stored, ok := m.logs[log.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.conflictNext {
		m.conflictNext = false
		stored.Version++
	}
	if stored.Version != log.Version {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version++
	log.UpdatedAt = time.Now()
	cp := *log
	m.logs[log.ID] = &cp
	return nil
}

func (m *mockWorklogRepo) Delete(_ context.Context, id int) error {
	delete(m.logs, id)
	return nil
}

func (m *mockWorklogRepo) List(_ context.Context, q repository.WorklogQuery) ([]model.WorkLog, int64, error) {
	var result []model.WorkLog
	for _, l := range m.logs {
		if q.EmployeeID != "" && l.EmployeeID != q.EmployeeID {
			continue
		}
		d := l.WorkDate.Format("2006-01-02")
		if q.StartDate != "" && d < q.StartDate {
			continue
		}
		if q.EndDate != "" && d > q.EndDate {
			continue
		}
		if q.Model != "" && l.Model != q.Model {
			continue
		}
		if q.UnitName != "" && l.UnitName != q.UnitName {
			continue
		}
		if q.WorkType != "" && l.WorkType != q.WorkType {
			continue
		}
		if q.PendingOnly && l.RequestPhase != model.PhasePending {
			continue
		}
		if q.HasFilter {
			if q.Action == model.ActionNone {
				if l.BaseStatus != q.BaseStatus || l.RequestAction != model.ActionNone {
					continue
				}
			} else if l.RequestAction != q.Action || l.RequestPhase != q.Phase {
				continue
			}
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	// 分页
	if q.Page > 0 && q.PerPage > 0 {
		start := (q.Page - 1) * q.PerPage
		if start > len(result) {
			start = len(result)
		}
		end := start + q.PerPage
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}
	return result, total, nil
}

func (m *mockWorklogRepo) CountPendingByAction(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, l := range m.logs {
		if l.RequestPhase == model.PhasePending {
			counts[l.RequestAction]++
		}
	}
	return counts, nil
}

func (m *mockWorklogRepo) CountRejectedByAction(_ context.Context, employeeID string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, l := range m.logs {
		if l.EmployeeID == employeeID && l.RequestPhase == model.PhaseRejected {
			counts[l.RequestAction]++
		}
	}
	return counts, nil
}

func (m *mockWorklogRepo) DistinctModels(_ context.Context, employeeID string) ([]string, error) {
	seen := make(map[string]bool)
	for _, l := range m.logs {
		if l.EmployeeID == employeeID && l.Model != "" {
			seen[l.Model] = true
		}
	}
	var result []string
	for v := range seen {
		result = append(result, v)
	}
	sort.Strings(result)
	return result, nil
}

func (m *mockWorklogRepo) DistinctWorkTypes(_ context.Context, employeeID string) ([]string, error) {
	seen := make(map[string]bool)
	for _, l := range m.logs {
		if l.EmployeeID == employeeID {
			seen[l.WorkType] = true
		}
	}
	var result []string
	for v := range seen {
		result = append(result, v)
	}
	sort.Strings(result)
	return result, nil
}

func (m *mockWorklogRepo) FindDuplicate(_ context.Context, employeeID string, f model.RecordFields) (*model.WorkLog, error) {
	for _, l := range m.logs {
		if l.EmployeeID != employeeID {
			continue
		}
		cur := l.Fields()
		if cur.Date == f.Date && cur.Model == f.Model && cur.SerialNumber == f.SerialNumber &&
			cur.WorkOrder == f.WorkOrder && cur.PartNumber == f.PartNumber &&
			cur.OrderNumber == f.OrderNumber && cur.Quantity == f.Quantity &&
			cur.UnitName == f.UnitName && cur.WorkType == f.WorkType {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockWorklogRepo) CountByUnitName(_ context.Context, unitName string) (int64, error) {
	var count int64
	for _, l := range m.logs {
		if l.UnitName == unitName {
			count++
		}
	}
	return count, nil
}

func (m *mockWorklogRepo) CountByWorkType(_ context.Context, workType string) (int64, error) {
	var count int64
	for _, l := range m.logs {
		if l.WorkType == workType {
			count++
		}
	}
	return count, nil
}

// ── Mock UnitRepository / WorkTypeRepository ──

type mockWorkTypeRepo struct {
	types  map[int]*model.WorkType
	nextID int
}

func newMockWorkTypeRepo() *mockWorkTypeRepo {
	m := &mockWorkTypeRepo{types: make(map[int]*model.WorkType), nextID: 1}
	for _, name := range []string{"組立", "検査", "N工数"} {
		m.types[m.nextID] = &model.WorkType{ID: m.nextID, Name: name}
		m.nextID++
	}
	return m
}

func (m *mockWorkTypeRepo) Create(_ context.Context, wt *model.WorkType) error {
	wt.ID = m.nextID
	m.nextID++
	m.types[wt.ID] = wt
	return nil
}

func (m *mockWorkTypeRepo) GetByID(_ context.Context, id int) (*model.WorkType, error) {
	if wt, ok := m.types[id]; ok {
		return wt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkTypeRepo) GetByName(_ context.Context, name string) (*model.WorkType, error) {
	for _, wt := range m.types {
		if wt.Name == name {
			return wt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkTypeRepo) GetByNames(_ context.Context, names []string) ([]model.WorkType, error) {
	var result []model.WorkType
	for _, name := range names {
		for _, wt := range m.types {
			if wt.Name == name {
				result = append(result, *wt)
			}
		}
	}
	return result, nil
}

func (m *mockWorkTypeRepo) List(_ context.Context) ([]model.WorkType, error) {
	var result []model.WorkType
	for _, wt := range m.types {
		result = append(result, *wt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockWorkTypeRepo) Update(_ context.Context, wt *model.WorkType) error {
	m.types[wt.ID] = wt
	return nil
}

func (m *mockWorkTypeRepo) Delete(_ context.Context, id int) error {
	delete(m.types, id)
	return nil
}

func (m *mockWorkTypeRepo) CountLinks(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

type mockUnitRepo struct {
	units   map[int]*model.UnitName
	nextID  int
	wtTypes *mockWorkTypeRepo
}

func newMockUnitRepo(wt *mockWorkTypeRepo) *mockUnitRepo {
	m := &mockUnitRepo{units: make(map[int]*model.UnitName), nextID: 1, wtTypes: wt}
	// 初期数据：第1ユニット（全工事区分可）
	var all []model.WorkType
	for _, t := range wt.types {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	m.units[1] = &model.UnitName{ID: 1, Name: "第1ユニット", WorkTypes: all}
	m.nextID = 2
	return m
}

func (m *mockUnitRepo) Create(_ context.Context, unit *model.UnitName) error {
	unit.ID = m.nextID
	m.nextID++
	m.units[unit.ID] = unit
	return nil
}

func (m *mockUnitRepo) GetByID(_ context.Context, id int) (*model.UnitName, error) {
	if u, ok := m.units[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) GetByName(_ context.Context, name string) (*model.UnitName, error) {
	for _, u := range m.units {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) List(_ context.Context) ([]model.UnitName, error) {
	var result []model.UnitName
	for _, u := range m.units {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockUnitRepo) Update(_ context.Context, unit *model.UnitName) error {
	stored, ok := m.units[unit.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = unit.Name
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id int) error {
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepo) ReplaceWorkTypes(_ context.Context, unitID int, workTypeIDs []int) error {
	unit, ok := m.units[unitID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	unit.WorkTypes = nil
	for _, id := range workTypeIDs {
		if wt, ok := m.wtTypes.types[id]; ok {
			unit.WorkTypes = append(unit.WorkTypes, *wt)
		}
	}
	return nil
}

// ── Mock Notifier ──

type mockNotifier struct {
	sent       []sentEvent
	broadcasts []sse.Event
}

type sentEvent struct {
	userID int
	event  sse.Event
}

func (m *mockNotifier) SendToUser(userID int, event sse.Event) {
	m.sent = append(m.sent, sentEvent{userID: userID, event: event})
}

func (m *mockNotifier) SendToUsers(userIDs []int, event sse.Event) {
	for _, id := range userIDs {
		m.SendToUser(id, event)
	}
}

func (m *mockNotifier) Broadcast(event sse.Event) {
	m.broadcasts = append(m.broadcasts, event)
}
