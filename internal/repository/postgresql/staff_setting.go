package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/database"
)

type staffSettingRepositoryImpl struct {
	db *database.DB
}

func NewStaffSettingRepository(db *database.DB) report.StaffSettingRepository {
	return &staffSettingRepositoryImpl{db: db}
}

// ListByOrganization implements report.StaffSettingRepository.
func (r *staffSettingRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string) ([]report.StaffSetting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			organization_id, staff_name, default_daily_hours::float8, fte::float8,
			target_billable_percentage::float8, start_date, end_date, is_hidden, report
		FROM staff_settings
		WHERE organization_id = $1
		ORDER BY staff_name
	`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff settings: %w", err)
	}
	defer rows.Close()

	var settings []report.StaffSetting
	for rows.Next() {
		var s report.StaffSetting
		err := rows.Scan(
			&s.OrganizationID, &s.StaffName, &s.DefaultDailyHours, &s.FTE,
			&s.TargetBillablePercentage, &s.StartDate, &s.EndDate, &s.IsHidden, &s.Report,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff settings: %w", err)
	}
	return settings, nil
}
