package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Fusion-Mind-co/worklog-system/internal/dto"
	"github.com/Fusion-Mind-co/worklog-system/internal/model"
	"github.com/Fusion-Mind-co/worklog-system/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRows       = errors.New("没有符合条件的工数记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 管理端工数一览按当前筛选条件导出为 Excel (.xlsx)
//   - 导出不分页，但沿用列表的筛选与排序条件
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportWorklogs 导出工数一览为 Excel
	ExportWorklogs(ctx context.Context, req *dto.AdminListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 组合状态串 → 日文表示
var statusLabels = map[string]string{
	model.BaseStatusDraft:    "下書き",
	model.BaseStatusApproved: "承認済み",
	"pending_add":            "追加申請中",
	"pending_edit":           "修正申請中",
	"pending_delete":         "削除申請中",
	"rejected_add":           "追加却下",
	"rejected_edit":          "修正却下",
	"rejected_delete":        "削除却下",
}

func (s *exportService) ExportWorklogs(ctx context.Context, req *dto.AdminListRequest) (*bytes.Buffer, string, error) {
	// 1. 组装查询（导出不分页，上限一次取齐）
	q := repository.WorklogQuery{
		EmployeeID: req.EmployeeID,
		Department: req.Department,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		UnitName:   req.UnitName,
		Page:       1,
		PerPage:    100000,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	switch req.Status {
	case "", "all":
	case "pending":
		q.PendingOnly = true
	default:
		base, action, phase, ok := model.StatusFilter(req.Status)
		if !ok {
			return nil, "", ErrInvalidStatusFilter
		}
		q.BaseStatus, q.Action, q.Phase, q.HasFilter = base, action, phase, true
	}

	logs, _, err := s.repo.Worklog.List(ctx, q)
	if err != nil {
		s.logger.Error("导出查询失败", zap.Error(err))
		return nil, "", err
	}
	if len(logs) == 0 {
		return nil, "", ErrExportNoRows
	}

	// 2. 社员号 → 氏名
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询用户一览失败", zap.Error(err))
		return nil, "", err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.EmployeeID] = u.Name
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工数一覧"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"日付", "社員番号", "氏名", "機種", "シリアルNo", "工番",
		"部品番号", "order番号", "数量", "ユニット名", "工事区分",
		"工数(分)", "備考", "状態", "申請理由", "却下理由",
	}
	widths := []float64{12, 10, 12, 14, 14, 12, 14, 14, 8, 14, 12, 10, 20, 12, 20, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		c := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheetName, c, h)
		f.SetCellStyle(sheetName, c, c, headerStyle)
	}

	for i := range logs {
		log := &logs[i]
		status := log.Status()
		label, ok := statusLabels[status]
		if !ok {
			label = status
		}
		values := []interface{}{
			log.WorkDate.Format("2006-01-02"),
			log.EmployeeID,
			names[log.EmployeeID],
			log.Model,
			log.SerialNumber,
			log.WorkOrder,
			log.PartNumber,
			log.OrderNumber,
			log.Quantity,
			log.UnitName,
			log.WorkType,
			log.Minutes,
			log.Remarks,
			label,
			log.EditReason,
			log.RejectReason,
		}
		row := i + 2
		for j, v := range values {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v)
		}
	}

	// 4. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工数一覧_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}
