package report

import "context"

// ReportService defines the KPI report operations
type ReportService interface {
	// GetKPISummary returns the card view comparing current and last financial year
	GetKPISummary(ctx context.Context, req ReportRequest) (*KPISummary, error)

	// GetDimensionReport returns billable amount and revenue grouped by one dimension
	GetDimensionReport(ctx context.Context, req DimensionReportRequest) (*DimensionReport, error)

	// GetStaffPerformance returns per-staff hours, billable % and recoverability
	GetStaffPerformance(ctx context.Context, req ReportRequest) (*StaffPerformanceReport, error)

	// GetMonthlyTrend returns a July..June series for one metric
	GetMonthlyTrend(ctx context.Context, req MonthlyTrendRequest) (*MonthlyTrend, error)
}
