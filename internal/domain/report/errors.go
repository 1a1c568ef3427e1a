package report

import "errors"

var (
	ErrOrganizationRequired   = errors.New("organization id is required")
	ErrInvalidDimension       = errors.New("dimension must be one of client_group, account_manager, job_manager, staff")
	ErrInvalidMetric          = errors.New("metric must be one of billable_amount, revenue, billable_hours")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
