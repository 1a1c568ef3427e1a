package report

import (
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

// ReportRequest carries the common report parameters. Malformed values are
// ignored rather than rejected: a bad as_of falls back to today, an unknown
// month applies no month filter, malformed filter segments are dropped.
type ReportRequest struct {
	OrganizationID string `json:"-"`
	AsOf           string `json:"as_of"`
	Staff          string `json:"staff"`
	Month          string `json:"month"`
	Filters        string `json:"filters"`
}

func (r *ReportRequest) Validate() error {
	if validator.IsEmpty(r.OrganizationID) {
		return ErrOrganizationRequired
	}
	return nil
}

type Dimension string

const (
	DimensionClientGroup    Dimension = "client_group"
	DimensionAccountManager Dimension = "account_manager"
	DimensionJobManager     Dimension = "job_manager"
	DimensionStaff          Dimension = "staff"
)

var validDimensions = []Dimension{DimensionClientGroup, DimensionAccountManager, DimensionJobManager, DimensionStaff}

type DimensionReportRequest struct {
	ReportRequest
	Dimension Dimension `json:"dimension"`
}

func (r *DimensionReportRequest) Validate() error {
	if err := r.ReportRequest.Validate(); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if !validator.IsOneOf(r.Dimension, validDimensions...) {
		errs.Add("dimension", ErrInvalidDimension.Error())
	}
	return errs.Err()
}

type Metric string

const (
	MetricBillableAmount Metric = "billable_amount"
	MetricRevenue        Metric = "revenue"
	MetricBillableHours  Metric = "billable_hours"
)

var validMetrics = []Metric{MetricBillableAmount, MetricRevenue, MetricBillableHours}

type MonthlyTrendRequest struct {
	ReportRequest
	Metric Metric `json:"metric"`
}

func (r *MonthlyTrendRequest) Validate() error {
	if err := r.ReportRequest.Validate(); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if !validator.IsOneOf(r.Metric, validMetrics...) {
		errs.Add("metric", ErrInvalidMetric.Error())
	}
	return errs.Err()
}

// ========================================
// SHARED
// ========================================

type PeriodInfo struct {
	CurrentStart string `json:"current_start"`
	CurrentEnd   string `json:"current_end"`
	LastStart    string `json:"last_start"`
	LastEnd      string `json:"last_end"`
	AsOf         string `json:"as_of"`
	Month        string `json:"month,omitempty"`
}

// Comparison compares a dollar, hour or rate metric by relative change
type Comparison struct {
	CurrentYear      float64  `json:"current_year"`
	LastYear         float64  `json:"last_year"`
	PercentageChange *float64 `json:"percentage_change"`
}

// PointComparison compares a percentage metric by plain subtraction
type PointComparison struct {
	CurrentYear float64 `json:"current_year"`
	LastYear    float64 `json:"last_year"`
	Difference  float64 `json:"difference"`
}

// ========================================
// KPI SUMMARY
// ========================================

type KPISummary struct {
	Period             PeriodInfo      `json:"period"`
	BillableAmount     Comparison      `json:"billable_amount"`
	Revenue            Comparison      `json:"revenue"`
	BillableHours      Comparison      `json:"billable_hours"`
	AverageRate        Comparison      `json:"average_rate"`
	BillablePercentage PointComparison `json:"billable_percentage"`
	Recoverability     PointComparison `json:"recoverability"`
	Wip                WipTotal        `json:"wip"`
}

type WipTotal struct {
	Total float64 `json:"total"`
}

// ========================================
// DIMENSION TABLE
// ========================================

type DimensionReport struct {
	Dimension Dimension      `json:"dimension"`
	Period    PeriodInfo     `json:"period"`
	Rows      []DimensionRow `json:"rows"`
	Total     DimensionRow   `json:"total"`
}

type DimensionRow struct {
	GroupKey       string      `json:"group_key"`
	BillableAmount Comparison  `json:"billable_amount"`
	BillableHours  Comparison  `json:"billable_hours"`
	Revenue        *Comparison `json:"revenue,omitempty"`
	AccountManager string      `json:"account_manager,omitempty"`
}

// ========================================
// STAFF PERFORMANCE
// ========================================

type StaffPerformanceReport struct {
	Period PeriodInfo            `json:"period"`
	Rows   []StaffPerformanceRow `json:"rows"`
	Total  StaffPerformanceRow   `json:"total"`
}

type StaffPerformanceRow struct {
	StaffName                    string       `json:"staff_name"`
	Eligible                     bool         `json:"eligible"`
	TargetBillablePercentage     *float64     `json:"target_billable_percentage"`
	Current                      StaffMetrics `json:"current_year"`
	Last                         StaffMetrics `json:"last_year"`
	BillableAmountChange         *float64     `json:"billable_amount_change"`
	AverageRateChange            *float64     `json:"average_rate_change"`
	BillablePercentageDifference float64      `json:"billable_percentage_difference"`
	RecoverabilityDifference     float64      `json:"recoverability_difference"`
}

type StaffMetrics struct {
	BillableAmount         float64  `json:"billable_amount"`
	BillableHours          float64  `json:"billable_hours"`
	StandardHours          float64  `json:"standard_hours"`
	CapacityReducingHours  float64  `json:"capacity_reducing_hours"`
	AvailableHours         float64  `json:"available_hours"`
	BillablePercentage     float64  `json:"billable_percentage"`
	BillableVariance       *float64 `json:"billable_variance"`
	AverageRate            float64  `json:"average_rate"`
	WriteOnAmount          float64  `json:"write_on_amount"`
	InvoicedAmount         float64  `json:"invoiced_amount"`
	Recoverability         float64  `json:"recoverability"`
	RecoverabilityVariance float64  `json:"recoverability_variance"`
}

// ========================================
// MONTHLY TREND
// ========================================

type MonthlyTrend struct {
	Metric Metric         `json:"metric"`
	Period PeriodInfo     `json:"period"`
	Points []MonthlyPoint `json:"points"`
}

type MonthlyPoint struct {
	Month       string  `json:"month"`
	CurrentYear float64 `json:"current_year"`
	LastYear    float64 `json:"last_year"`
}
