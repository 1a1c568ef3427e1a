package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type ReportHandler interface {
	// KPI cards
	GetKPISummary(w http.ResponseWriter, r *http.Request)

	// Dimension tables
	GetDimensionReport(w http.ResponseWriter, r *http.Request)
	ExportDimensionReport(w http.ResponseWriter, r *http.Request)

	// Staff performance
	GetStaffPerformance(w http.ResponseWriter, r *http.Request)

	// Monthly trend
	GetMonthlyTrend(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// parseReportRequest reads the common query parameters. Values are passed
// through unvalidated; the service defaults anything it cannot use.
func parseReportRequest(r *http.Request) report.ReportRequest {
	q := r.URL.Query()
	return report.ReportRequest{
		OrganizationID: middleware.OrganizationID(r.Context()),
		AsOf:           q.Get("as_of"),
		Staff:          q.Get("staff"),
		Month:          q.Get("month"),
		Filters:        q.Get("filters"),
	}
}

// GetKPISummary handles GET /reports/kpi
func (h *reportHandlerImpl) GetKPISummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetKPISummary(r.Context(), parseReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDimensionReport handles GET /reports/dimensions/{dimension}
func (h *reportHandlerImpl) GetDimensionReport(w http.ResponseWriter, r *http.Request) {
	req := report.DimensionReportRequest{
		ReportRequest: parseReportRequest(r),
		Dimension:     report.Dimension(chi.URLParam(r, "dimension")),
	}

	result, err := h.reportService.GetDimensionReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportDimensionReport handles GET /reports/dimensions/{dimension}/export
func (h *reportHandlerImpl) ExportDimensionReport(w http.ResponseWriter, r *http.Request) {
	req := report.DimensionReportRequest{
		ReportRequest: parseReportRequest(r),
		Dimension:     report.Dimension(chi.URLParam(r, "dimension")),
	}

	result, err := h.reportService.GetDimensionReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := exportDimensionXLSX(result)
	if err != nil {
		response.InternalServerError(w, "Failed to build export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"", result.Dimension, result.Period.AsOf))
	_, _ = w.Write(data)
}

// GetStaffPerformance handles GET /reports/staff-performance
func (h *reportHandlerImpl) GetStaffPerformance(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetStaffPerformance(r.Context(), parseReportRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyTrend handles GET /reports/monthly/{metric}
func (h *reportHandlerImpl) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	req := report.MonthlyTrendRequest{
		ReportRequest: parseReportRequest(r),
		Metric:        report.Metric(chi.URLParam(r, "metric")),
	}

	result, err := h.reportService.GetMonthlyTrend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

const dimensionSheet = "Report"

func exportDimensionXLSX(result *report.DimensionReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(dimensionSheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	withRevenue := result.Total.Revenue != nil
	withManager := result.Dimension == report.DimensionClientGroup

	header := []any{string(result.Dimension)}
	if withManager {
		header = append(header, "Account Manager")
	}
	header = append(header,
		"Billable Amount (Current)", "Billable Amount (Last)", "Billable Amount Change %",
		"Billable Hours (Current)", "Billable Hours (Last)",
	)
	if withRevenue {
		header = append(header, "Revenue (Current)", "Revenue (Last)", "Revenue Change %")
	}
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}

	rows := append(append([]report.DimensionRow{}, result.Rows...), result.Total)
	for i, row := range rows {
		values := []any{row.GroupKey}
		if withManager {
			values = append(values, row.AccountManager)
		}
		values = append(values,
			row.BillableAmount.CurrentYear, row.BillableAmount.LastYear, changeCell(row.BillableAmount.PercentageChange),
			row.BillableHours.CurrentYear, row.BillableHours.LastYear,
		)
		if withRevenue && row.Revenue != nil {
			values = append(values, row.Revenue.CurrentYear, row.Revenue.LastYear, changeCell(row.Revenue.PercentageChange))
		}
		if err := writeRow(f, i+2, values); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(dimensionSheet, "A", lastCol, 20); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	totalRow := len(rows) + 1
	if err := f.SetCellStyle(dimensionSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(dimensionSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("%s%d", lastCol, totalRow), bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(dimensionSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// changeCell leaves the cell blank when there is no change to report
func changeCell(change *float64) any {
	if change == nil {
		return ""
	}
	return *change
}
