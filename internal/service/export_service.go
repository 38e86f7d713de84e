package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dinehub/backend/internal/model"
	"dinehub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoLocations  = errors.New("该餐厅暂无门店")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 一期仅实现餐厅门店清单导出为 Excel (.xlsx)
//   - 员工指派明细导出依赖报表模块，归入二期
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportLocations 导出餐厅的门店清单为 Excel
	ExportLocations(ctx context.Context, restaurantID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportLocations — 导出门店清单为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "门店清单"
//   - 行序与 List 接口一致：主门店置顶，其余按创建时间升序
//   - 每行：名称 / Slug / 状态 / 主门店 / 城市 / 地址 / 每日营业时间
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportLocations(ctx context.Context, restaurantID string) (*bytes.Buffer, string, error) {
	// 1. 查询餐厅（取名称用于标题与文件名）
	restaurant, err := s.repo.Restaurant.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrRestaurantNotFound
		}
		s.logger.Error("查询餐厅失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 查询门店（全部状态）
	locations, err := s.repo.Location.ListByRestaurant(ctx, restaurantID, "")
	if err != nil {
		s.logger.Error("查询门店列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(locations) == 0 {
		return nil, "", ErrExportNoLocations
	}

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "门店清单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	dayHeaders := []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日", "节假日"}
	fixedHeaders := []string{"门店名称", "Slug", "状态", "主门店", "城市", "地址"}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "D", 8)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 30)
	for i := range dayHeaders {
		col, _ := excelize.ColumnNumberToName(len(fixedHeaders) + i + 1)
		f.SetColWidth(sheetName, col, col, 13)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 门店清单", restaurant.Name))
	f.MergeCell(sheetName, "A1", cell(colName(len(fixedHeaders)+len(dayHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, h := range append(append([]string{}, fixedHeaders...), dayHeaders...) {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}

	// 数据行
	row = 3
	for _, loc := range locations {
		primary := "否"
		if loc.IsPrimary {
			primary = "是"
		}
		status := "营业中"
		if loc.Status == model.LocationStatusInactive {
			status = "停业"
		}

		f.SetCellValue(sheetName, cell("A", row), loc.Name)
		f.SetCellValue(sheetName, cell("B", row), loc.Slug)
		f.SetCellValue(sheetName, cell("C", row), status)
		f.SetCellValue(sheetName, cell("D", row), primary)
		f.SetCellValue(sheetName, cell("E", row), loc.City)
		f.SetCellValue(sheetName, cell("F", row), formatAddress(loc))

		for i, day := range loc.OperatingHours.Days() {
			f.SetCellValue(sheetName, cell(colName(len(fixedHeaders)+i), row), formatDayHours(day.Hours))
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("门店清单_%s.xlsx", restaurant.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func formatDayHours(h model.DayHours) string {
	if h.Closed {
		return "休息"
	}
	return fmt.Sprintf("%s-%s", h.Open, h.Close)
}

func formatAddress(loc model.Location) string {
	parts := make([]string, 0, 3)
	if loc.AddressLine1 != "" {
		parts = append(parts, loc.AddressLine1)
	}
	if loc.AddressLine2 != "" {
		parts = append(parts, loc.AddressLine2)
	}
	if loc.PostalCode != "" {
		parts = append(parts, loc.PostalCode)
	}
	return strings.Join(parts, " ")
}
