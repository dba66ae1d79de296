package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Ismaelg12/timeflow/internal/attendance"
	"github.com/Ismaelg12/timeflow/internal/dto"
	"github.com/Ismaelg12/timeflow/internal/model"
	"github.com/Ismaelg12/timeflow/internal/repository"
	"github.com/Ismaelg12/timeflow/pkg/clock"
	"github.com/Ismaelg12/timeflow/pkg/i18n"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// pdfLocale PDF 使用核心字体（仅 Latin-1），固定葡萄牙语输出
const pdfLocale = "pt-BR"

// Export 导出结果
type Export struct {
	Filename    string
	ContentType string
	Data        *bytes.Buffer
}

const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF   = "application/pdf"
	ContentTypeICS   = "text/calendar; charset=utf-8"
)

// ExportService 导出业务接口
//
// 三种格式共用 ReportService.BuildSummary 的汇总结果，
// 以 bytes.Buffer 返回，由 Handler 层设置响应头后写出。
type ExportService interface {
	// WorkerExcel 员工报表工作簿：Resumo / Dias / Semana 三个 Sheet
	WorkerExcel(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error)
	// WorkerPDF 员工报表 PDF：汇总指标 + 每日明细
	WorkerPDF(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error)
	// WorkerCalendar 员工已配对的上下班区间，每段一个 VEVENT
	WorkerCalendar(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error)
}

type exportService struct {
	repo        *repository.Repository
	reports     ReportService
	clock       clock.Clock
	companyName string
	logger      *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, reports ReportService, clk clock.Clock, companyName string, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, reports: reports, clock: clk, companyName: companyName, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// WorkerExcel
// ═══════════════════════════════════════════════════════════

func (s *exportService) WorkerExcel(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error) {
	worker, summary, err := s.reports.BuildSummary(ctx, workerID, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	incompleteStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})

	// ── Resumo ──
	summarySheet := i18n.T(ctx, "Report.Summary")
	idx, _ := f.NewSheet(summarySheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 32)

	f.SetCellValue(summarySheet, "A1", fmt.Sprintf("%s - %s", s.companyName, i18n.T(ctx, "Report.Title")))
	f.MergeCell(summarySheet, "A1", "B1")
	f.SetCellStyle(summarySheet, "A1", "B1", headerStyle)

	balance := summary.Balance()
	metrics := [][2]interface{}{
		{i18n.T(ctx, "Report.Worker"), worker.FullName()},
		{"CPF", worker.CPF},
		{i18n.T(ctx, "Report.Period"), periodLabel(summary)},
		{i18n.T(ctx, "Report.Worked"), attendance.FormatDuration(summary.Worked)},
		{i18n.T(ctx, "Report.Expected"), attendance.FormatDuration(summary.Expected)},
		{i18n.T(ctx, "Report.Balance"), attendance.FormatBalance(balance)},
		{i18n.T(ctx, "Report.Completion"), fmt.Sprintf("%.1f%%", summary.PercentComplete())},
		{i18n.T(ctx, "Report.DaysWorked"), summary.DaysWorked},
		{i18n.T(ctx, "Report.IncompleteDays"), len(summary.IncompleteDays)},
	}
	for i, m := range metrics {
		row := i + 2
		f.SetCellValue(summarySheet, cell("A", row), m[0])
		f.SetCellValue(summarySheet, cell("B", row), m[1])
	}

	// ── Dias ──
	daySheet := i18n.T(ctx, "Report.Daily")
	f.NewSheet(daySheet)
	dayHeaders := []string{
		i18n.T(ctx, "Report.Date"),
		i18n.T(ctx, "Report.Weekday"),
		i18n.T(ctx, "Report.Day"),
		i18n.T(ctx, "Report.DayExpected"),
		i18n.T(ctx, "EventType.ENTRY"),
		i18n.T(ctx, "EventType.EXIT"),
		i18n.T(ctx, "Report.Incomplete"),
	}
	for i, h := range dayHeaders {
		f.SetCellValue(daySheet, cell(colName(i), 1), h)
		f.SetColWidth(daySheet, colName(i), colName(i), 16)
	}
	f.SetCellStyle(daySheet, "A1", cell(colName(len(dayHeaders)-1), 1), headerStyle)

	for i, d := range summary.Days {
		row := i + 2
		f.SetCellValue(daySheet, cell("A", row), d.Date.Format("02/01/2006"))
		f.SetCellValue(daySheet, cell("B", row), weekdayLabel(ctx, d.Date.Weekday()))
		f.SetCellValue(daySheet, cell("C", row), attendance.FormatDuration(d.Worked))
		f.SetCellValue(daySheet, cell("D", row), attendance.FormatDuration(d.Expected))
		f.SetCellValue(daySheet, cell("E", row), d.Entries)
		f.SetCellValue(daySheet, cell("F", row), d.Exits)
		f.SetCellValue(daySheet, cell("G", row), yesNo(ctx, d.Incomplete))
		if d.Incomplete {
			f.SetCellStyle(daySheet, cell("A", row), cell("G", row), incompleteStyle)
		}
	}

	// ── Semana ──
	weekSheet := i18n.T(ctx, "Report.Week")
	f.NewSheet(weekSheet)
	weekHeaders := []string{
		i18n.T(ctx, "Report.Weekday"),
		i18n.T(ctx, "Report.Worked"),
		i18n.T(ctx, "Report.Decimal"),
		i18n.T(ctx, "Report.Days"),
		i18n.T(ctx, "Report.Average"),
	}
	for i, h := range weekHeaders {
		f.SetCellValue(weekSheet, cell(colName(i), 1), h)
		f.SetColWidth(weekSheet, colName(i), colName(i), 18)
	}
	f.SetCellStyle(weekSheet, "A1", cell(colName(len(weekHeaders)-1), 1), headerStyle)

	for i, w := range summary.Weekdays {
		row := i + 2
		f.SetCellValue(weekSheet, cell("A", row), weekdayLabel(ctx, w.Weekday))
		f.SetCellValue(weekSheet, cell("B", row), attendance.FormatDuration(w.Total))
		f.SetCellValue(weekSheet, cell("C", row), w.Hours())
		f.SetCellValue(weekSheet, cell("D", row), w.Days)
		f.SetCellValue(weekSheet, cell("E", row), w.Average())
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	return &Export{
		Filename:    exportFilename(worker, summary, "xlsx"),
		ContentType: ContentTypeExcel,
		Data:        buf,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// WorkerPDF
// ═══════════════════════════════════════════════════════════

func (s *exportService) WorkerPDF(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error) {
	worker, summary, err := s.reports.BuildSummary(ctx, workerID, req)
	if err != nil {
		return nil, err
	}
	ctx = i18n.WithLocale(ctx, pdfLocale)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, tr(i18n.T(ctx, "Report.Page", map[string]any{"Page": pdf.PageNo()})), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// 标题
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(s.companyName+" - "+i18n.T(ctx, "Report.Title")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s: %s (CPF %s)", i18n.T(ctx, "Report.Worker"), worker.FullName(), worker.CPF)))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s: %s", i18n.T(ctx, "Report.Period"), periodLabel(summary))))
	pdf.Ln(12)

	// 汇总指标
	metrics := []struct{ label, value string }{
		{i18n.T(ctx, "Report.Worked"), attendance.FormatDuration(summary.Worked)},
		{i18n.T(ctx, "Report.Expected"), attendance.FormatDuration(summary.Expected)},
		{i18n.T(ctx, "Report.Balance"), attendance.FormatBalance(summary.Balance())},
		{i18n.T(ctx, "Report.Completion"), fmt.Sprintf("%.1f%%", summary.PercentComplete())},
		{i18n.T(ctx, "Report.DaysWorked"), fmt.Sprintf("%d", summary.DaysWorked)},
		{i18n.T(ctx, "Report.IncompleteDays"), fmt.Sprintf("%d", len(summary.IncompleteDays))},
	}
	pdf.SetFont("Arial", "", 11)
	for _, m := range metrics {
		pdf.CellFormat(70, 8, tr(m.label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, tr(m.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	// 每日明细
	widths := []float64{28, 30, 28, 28, 30}
	headers := []string{
		i18n.T(ctx, "Report.Date"),
		i18n.T(ctx, "Report.Weekday"),
		i18n.T(ctx, "Report.Day"),
		i18n.T(ctx, "Report.DayExpected"),
		i18n.T(ctx, "Report.Incomplete"),
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, d := range summary.Days {
		cells := []string{
			d.Date.Format("02/01/2006"),
			weekdayLabel(ctx, d.Date.Weekday()),
			attendance.FormatDuration(d.Worked),
			attendance.FormatDuration(d.Expected),
			yesNo(ctx, d.Incomplete),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 8, s.clock.Now().Format("02/01/2006 15:04:05"))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("生成 PDF 失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	return &Export{
		Filename:    exportFilename(worker, summary, "pdf"),
		ContentType: ContentTypePDF,
		Data:        buf,
	}, nil
}

// ═══════════════════════════════════════════════════════════
// WorkerCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) WorkerCalendar(ctx context.Context, workerID string, req *dto.DateRangeRequest) (*Export, error) {
	worker, summary, err := s.reports.BuildSummary(ctx, workerID, req)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.Event.ListByWorkerRange(ctx, worker.WorkerID, summary.Start.AddDate(0, 0, -1), summary.End.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询区间打卡失败", zap.String("worker_id", workerID), zap.Error(err))
		return nil, err
	}

	loc := s.clock.Location()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + s.companyName + "//TimeFlow//PT")
	cal.SetName(worker.FullName())

	stamp := s.clock.Now()
	summaryText := i18n.T(ctx, "Calendar.Shift", map[string]any{"Name": worker.FullName()})
	for _, iv := range attendance.Intervals(events, summary.Start, summary.End) {
		vevent := cal.AddEvent(iv.Entry.EventID + "@timeflow")
		vevent.SetDtStampTime(stamp)
		vevent.SetStartAt(inZone(iv.Entry.At(), loc))
		vevent.SetEndAt(inZone(iv.Entry.At().Add(iv.Duration()), loc))
		vevent.SetSummary(summaryText)
		vevent.SetDescription(ReceiptCode(iv.Entry.EventID) + " / " + ReceiptCode(iv.Exit.EventID))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return &Export{
		Filename:    exportFilename(worker, summary, "ics"),
		ContentType: ContentTypeICS,
		Data:        buf,
	}, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// inZone 将民用时间点解释为业务时区的时刻
func inZone(civil time.Time, loc *time.Location) time.Time {
	y, m, d := civil.Date()
	return time.Date(y, m, d, civil.Hour(), civil.Minute(), civil.Second(), 0, loc)
}

func periodLabel(s *attendance.Summary) string {
	return s.Start.Format("02/01/2006") + " - " + s.End.Format("02/01/2006")
}

func yesNo(ctx context.Context, v bool) string {
	if v {
		return i18n.T(ctx, "Report.Yes")
	}
	return i18n.T(ctx, "Report.No")
}

func exportFilename(w *model.Worker, s *attendance.Summary, ext string) string {
	name := strings.ReplaceAll(strings.ToLower(w.FullName()), " ", "_")
	return fmt.Sprintf("ponto_%s_%s_%s.%s", name, s.Start.Format("20060102"), s.End.Format("20060102"), ext)
}
