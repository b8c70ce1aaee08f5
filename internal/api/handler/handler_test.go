package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/service"
	pkgerrors "github.com/Fusion-Mind-co/worklog-system/pkg/errors"
	"github.com/Fusion-Mind-co/worklog-system/pkg/jwt"
	"github.com/Fusion-Mind-co/worklog-system/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	refreshResult *dto.TokenResponse
	refreshErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ *jwt.Claims) error {
	return m.logoutErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}

// ── Mock UserService ──

type mockUserService struct {
	getResult    *dto.UserResponse
	getErr       error
	listResult   []dto.UserResponse
	listTotal    int64
	listErr      error
	updateResult *dto.UserResponse
	updateErr    error
	adminResult  *dto.UserResponse
	adminErr     error
	deleteErr    error
}

func (m *mockUserService) GetByID(_ context.Context, _ int) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockUserService) UpdateSettings(_ context.Context, _ int, _ *dto.UserSettingsRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) AdminCreate(_ context.Context, _ *dto.AdminUserCreateRequest) (*dto.UserResponse, error) {
	return m.adminResult, m.adminErr
}
func (m *mockUserService) AdminUpdate(_ context.Context, _ int, _ *dto.AdminUserUpdateRequest) (*dto.UserResponse, error) {
	return m.adminResult, m.adminErr
}
func (m *mockUserService) AdminDelete(_ context.Context, _ int) error {
	return m.deleteErr
}

// ── Mock WorklogService ──

type mockWorklogService struct {
	dailyResult     *dto.DailyWorklogResponse
	dailyErr        error
	historyResult   []dto.WorklogResponse
	historyTotal    int64
	historyErr      error
	filtersResult   *dto.FilterOptionsResponse
	filtersErr      error
	optionsResult   []dto.UnitOptionResponse
	optionsErr      error
	duplicateResult *dto.DuplicateCheckResponse
	duplicateErr    error
	submitResult    *dto.WorklogResponse
	submitErr       error
	decideResult    *dto.WorklogResponse
	decideErr       error
	pendingResult   *dto.PendingCountResponse
	pendingErr      error
	rejectResult    *dto.RejectCountResponse
	rejectErr       error
	adminResult     []dto.WorklogResponse
	adminTotal      int64
	adminErr        error
}

func (m *mockWorklogService) SaveDaily(_ context.Context, _ string, _ *dto.DailySaveRequest) (*dto.DailyWorklogResponse, error) {
	return m.dailyResult, m.dailyErr
}
func (m *mockWorklogService) GetDaily(_ context.Context, _, _ string) (*dto.DailyWorklogResponse, error) {
	return m.dailyResult, m.dailyErr
}
func (m *mockWorklogService) History(_ context.Context, _ string, _ *dto.HistoryListRequest) ([]dto.WorklogResponse, int64, error) {
	return m.historyResult, m.historyTotal, m.historyErr
}
func (m *mockWorklogService) FilterOptions(_ context.Context, _ string) (*dto.FilterOptionsResponse, error) {
	return m.filtersResult, m.filtersErr
}
func (m *mockWorklogService) UnitOptions(_ context.Context) ([]dto.UnitOptionResponse, error) {
	return m.optionsResult, m.optionsErr
}
func (m *mockWorklogService) CheckDuplicate(_ context.Context, _ string, _ *dto.DuplicateCheckRequest) (*dto.DuplicateCheckResponse, error) {
	return m.duplicateResult, m.duplicateErr
}
func (m *mockWorklogService) SubmitAdd(_ context.Context, _ string, _ *dto.SubmitAddRequest) (*dto.WorklogResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockWorklogService) SubmitEdit(_ context.Context, _ string, _ int, _ *dto.SubmitEditRequest) (*dto.WorklogResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockWorklogService) SubmitDelete(_ context.Context, _ string, _ int, _ *dto.SubmitDeleteRequest) (*dto.WorklogResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockWorklogService) Cancel(_ context.Context, _ string, _ int) (*dto.WorklogResponse, error) {
	return m.decideResult, m.decideErr
}
func (m *mockWorklogService) Approve(_ context.Context, _ string, _ int) (*dto.WorklogResponse, error) {
	return m.decideResult, m.decideErr
}
func (m *mockWorklogService) Reject(_ context.Context, _ string, _ int, _ *dto.RejectRequest) (*dto.WorklogResponse, error) {
	return m.decideResult, m.decideErr
}
func (m *mockWorklogService) PendingCount(_ context.Context) (*dto.PendingCountResponse, error) {
	return m.pendingResult, m.pendingErr
}
func (m *mockWorklogService) RejectCount(_ context.Context, _ string) (*dto.RejectCountResponse, error) {
	return m.rejectResult, m.rejectErr
}
func (m *mockWorklogService) AdminList(_ context.Context, _ *dto.AdminListRequest) ([]dto.WorklogResponse, int64, error) {
	return m.adminResult, m.adminTotal, m.adminErr
}

// ── Mock TaxonomyService ──

type mockTaxonomyService struct {
	unitResult  *dto.UnitResponse
	unitsResult []dto.UnitResponse
	unitErr     error
	wtResult    *dto.WorkTypeResponse
	wtsResult   []dto.WorkTypeResponse
	wtErr       error
	deleteErr   error
}

func (m *mockTaxonomyService) CreateUnit(_ context.Context, _ *dto.UnitCreateRequest) (*dto.UnitResponse, error) {
	return m.unitResult, m.unitErr
}
func (m *mockTaxonomyService) ListUnits(_ context.Context) ([]dto.UnitResponse, error) {
	return m.unitsResult, m.unitErr
}
func (m *mockTaxonomyService) UpdateUnit(_ context.Context, _ int, _ *dto.UnitUpdateRequest) (*dto.UnitResponse, error) {
	return m.unitResult, m.unitErr
}
func (m *mockTaxonomyService) DeleteUnit(_ context.Context, _ int) error {
	return m.deleteErr
}
func (m *mockTaxonomyService) CreateWorkType(_ context.Context, _ *dto.WorkTypeCreateRequest) (*dto.WorkTypeResponse, error) {
	return m.wtResult, m.wtErr
}
func (m *mockTaxonomyService) ListWorkTypes(_ context.Context) ([]dto.WorkTypeResponse, error) {
	return m.wtsResult, m.wtErr
}
func (m *mockTaxonomyService) UpdateWorkType(_ context.Context, _ int, _ *dto.WorkTypeUpdateRequest) (*dto.WorkTypeResponse, error) {
	return m.wtResult, m.wtErr
}
func (m *mockTaxonomyService) DeleteWorkType(_ context.Context, _ int) error {
	return m.deleteErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportWorklogs(_ context.Context, _ *dto.AdminListRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// authMiddleware 模拟 JWTAuth 注入的上下文键
func authMiddleware(c *gin.Context) {
	c.Set("user_id", 1)
	c.Set("employee_id", "1001")
	c.Set("role_level", 2)
	c.Set("claims", &jwt.Claims{UserID: 1, EmployeeID: "1001", RoleLevel: 2, TokenType: "access"})
	c.Next()
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		EmployeeID: "1001",
		Password:   "password123",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := doRequest(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		EmployeeID: "1001",
		Password:   "wrong",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefreshToken}, nil)

	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	w := doRequest(r, "POST", "/auth/refresh", jsonBody(dto.RefreshRequest{
		RefreshToken: "stale-token",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockUserService{
		getResult: &dto.UserResponse{ID: 1, EmployeeID: "1001", Name: "田中太郎"},
	})

	r := gin.New()
	r.GET("/auth/me", authMiddleware, h.Me)
	w := doRequest(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockUserService{})

	// 未经过认证中间件，上下文缺少 user_id
	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := doRequest(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10002 {
		t.Errorf("expected error code 10002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WorklogHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWorklogHandler_GetDaily_MissingDate(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{})

	r := gin.New()
	r.GET("/worklogs/daily", authMiddleware, h.GetDaily)
	w := doRequest(r, "GET", "/worklogs/daily", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWorklogHandler_SaveDaily_Success(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{
		dailyResult: &dto.DailyWorklogResponse{WorkDate: "2026-08-20"},
	})

	r := gin.New()
	r.POST("/worklogs/daily", authMiddleware, h.SaveDaily)
	w := doRequest(r, "POST", "/worklogs/daily", jsonBody(dto.DailySaveRequest{
		WorkDate: "2026-08-20",
		WorkRows: []dto.DailyRowRequest{
			{UnitName: "第1ユニット", WorkType: "組立", Minutes: 60},
		},
	}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestWorklogHandler_SubmitAdd_Created(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{
		submitResult: &dto.WorklogResponse{ID: 10, Status: "pending_add"},
	})

	r := gin.New()
	r.POST("/worklogs/requests", authMiddleware, h.SubmitAdd)
	w := doRequest(r, "POST", "/worklogs/requests", jsonBody(dto.SubmitAddRequest{
		Date: "2026-08-20", Model: "MX-100", SerialNumber: "SN-001",
		WorkOrder: "WO-1", PartNumber: "PN-1", OrderNumber: "ON-1", Quantity: "1",
		UnitName: "第1ユニット", WorkType: "組立", Minutes: 60, EditReason: "追加",
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestWorklogHandler_SubmitAdd_MissingReason(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{})

	// edit_reason 是 binding:required，缺失时不应到达 service
	r := gin.New()
	r.POST("/worklogs/requests", authMiddleware, h.SubmitAdd)
	w := doRequest(r, "POST", "/worklogs/requests", jsonBody(dto.SubmitAddRequest{
		Date: "2026-08-20", UnitName: "第1ユニット", WorkType: "組立", Minutes: 60,
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWorklogHandler_SubmitEdit_InvalidID(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{})

	r := gin.New()
	r.POST("/worklogs/:id/request-edit", authMiddleware, h.SubmitEdit)
	w := doRequest(r, "POST", "/worklogs/abc/request-edit", jsonBody(dto.SubmitEditRequest{
		EditReason: "修正",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWorklogHandler_SubmitEdit_NotOwner(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{submitErr: service.ErrWorklogNotOwner})

	r := gin.New()
	r.POST("/worklogs/:id/request-edit", authMiddleware, h.SubmitEdit)
	w := doRequest(r, "POST", "/worklogs/5/request-edit", jsonBody(dto.SubmitEditRequest{
		EditReason: "修正",
	}))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12002 {
		t.Errorf("expected error code 12002, got %d", resp.Code)
	}
}

func TestWorklogHandler_Approve_InvalidTransition(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{decideErr: service.ErrInvalidTransition})

	r := gin.New()
	r.POST("/worklogs/:id/approve", authMiddleware, h.Approve)
	w := doRequest(r, "POST", "/worklogs/5/approve", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12003 {
		t.Errorf("expected error code 12003, got %d", resp.Code)
	}
}

func TestWorklogHandler_Approve_OptimisticLockConflict(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{decideErr: pkgerrors.ErrOptimisticLock})

	r := gin.New()
	r.POST("/worklogs/:id/approve", authMiddleware, h.Approve)
	w := doRequest(r, "POST", "/worklogs/5/approve", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12013 {
		t.Errorf("expected error code 12013, got %d", resp.Code)
	}
}

func TestWorklogHandler_Approve_DeleteReturnsNull(t *testing.T) {
	// 删除承认后记录不复存在，data 为空
	h := NewWorklogHandler(&mockWorklogService{decideResult: nil})

	r := gin.New()
	r.POST("/worklogs/:id/approve", authMiddleware, h.Approve)
	w := doRequest(r, "POST", "/worklogs/5/approve", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Data != nil {
		t.Errorf("expected null data, got %v", resp.Data)
	}
}

func TestWorklogHandler_Reject_MissingReason(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{})

	r := gin.New()
	r.POST("/worklogs/:id/reject", authMiddleware, h.Reject)
	w := doRequest(r, "POST", "/worklogs/5/reject", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWorklogHandler_History_InvalidStatus(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{historyErr: service.ErrInvalidStatusFilter})

	r := gin.New()
	r.GET("/worklogs/history", authMiddleware, h.History)
	w := doRequest(r, "GET", "/worklogs/history?status=bogus", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12011 {
		t.Errorf("expected error code 12011, got %d", resp.Code)
	}
}

func TestWorklogHandler_PendingCount_Success(t *testing.T) {
	h := NewWorklogHandler(&mockWorklogService{
		pendingResult: &dto.PendingCountResponse{Total: 3, PendingAdd: 2, PendingEdit: 1},
	})

	r := gin.New()
	r.GET("/worklogs/pending-count", authMiddleware, h.PendingCount)
	w := doRequest(r, "GET", "/worklogs/pending-count", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_CreateUser_Created(t *testing.T) {
	h := NewUserHandler(&mockUserService{
		adminResult: &dto.UserResponse{ID: 3, EmployeeID: "3001", Name: "鈴木一郎", RoleLevel: 1},
	})

	r := gin.New()
	r.POST("/admin/users", authMiddleware, h.Create)
	w := doRequest(r, "POST", "/admin/users", jsonBody(dto.AdminUserCreateRequest{
		EmployeeID:     "3001",
		Name:           "鈴木一郎",
		DepartmentName: "製造部",
		Position:       "一般",
		Password:       "hakusan123",
	}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestUserHandler_CreateUser_EmployeeIDConflict(t *testing.T) {
	h := NewUserHandler(&mockUserService{adminErr: service.ErrEmployeeIDExists})

	r := gin.New()
	r.POST("/admin/users", authMiddleware, h.Create)
	w := doRequest(r, "POST", "/admin/users", jsonBody(dto.AdminUserCreateRequest{
		EmployeeID:     "1001",
		Name:           "田中太郎",
		DepartmentName: "製造部",
		Position:       "一般",
		Password:       "hakusan123",
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11004 {
		t.Errorf("expected code 11004, got %d", resp.Code)
	}
}

func TestUserHandler_CreateUser_MissingPassword(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	r := gin.New()
	r.POST("/admin/users", authMiddleware, h.Create)
	w := doRequest(r, "POST", "/admin/users", jsonBody(map[string]string{
		"employee_id":     "3001",
		"name":            "鈴木一郎",
		"department_name": "製造部",
		"position":        "一般",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUserHandler_UpdateUser_NotFound(t *testing.T) {
	h := NewUserHandler(&mockUserService{adminErr: service.ErrUserNotFound})

	r := gin.New()
	r.PUT("/admin/users/:id", authMiddleware, h.Update)
	w := doRequest(r, "PUT", "/admin/users/999", jsonBody(dto.AdminUserUpdateRequest{
		EmployeeID:     "9999",
		Name:           "存在しない",
		DepartmentName: "製造部",
		Position:       "一般",
	}))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected code 11003, got %d", resp.Code)
	}
}

func TestUserHandler_DeleteUser_Success(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	r := gin.New()
	r.DELETE("/admin/users/:id", authMiddleware, h.Delete)
	w := doRequest(r, "DELETE", "/admin/users/3", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TaxonomyHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTaxonomyHandler_CreateUnit_NameExists(t *testing.T) {
	h := NewTaxonomyHandler(&mockTaxonomyService{unitErr: service.ErrUnitNameExists})

	r := gin.New()
	r.POST("/admin/units", authMiddleware, h.CreateUnit)
	w := doRequest(r, "POST", "/admin/units", jsonBody(dto.UnitCreateRequest{Name: "第1ユニット"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTaxonomyHandler_DeleteUnit_InUse(t *testing.T) {
	h := NewTaxonomyHandler(&mockTaxonomyService{deleteErr: service.ErrUnitInUse})

	r := gin.New()
	r.DELETE("/admin/units/:id", authMiddleware, h.DeleteUnit)
	w := doRequest(r, "DELETE", "/admin/units/1", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportWorklogs_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("xlsx-binary"),
		filename: "工数一覧_20260820_120000.xlsx",
	})

	r := gin.New()
	r.GET("/admin/worklogs/export", authMiddleware, h.ExportWorklogs)
	w := doRequest(r, "GET", "/admin/worklogs/export", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_ExportWorklogs_NoRows(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoRows})

	r := gin.New()
	r.GET("/admin/worklogs/export", authMiddleware, h.ExportWorklogs)
	w := doRequest(r, "GET", "/admin/worklogs/export", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14001 {
		t.Errorf("expected error code 14001, got %d", resp.Code)
	}
}
