package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// StatsRepository serves the aggregate queries behind the dashboard, the map
// view and the monthly report.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	MapMarkers(ctx context.Context) ([]*models.MapMarker, error)
	SIRStats(ctx context.Context, start, end time.Time) (*models.SIRStats, error)
}

type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

var _ StatsRepository = (*statsRepository)(nil)

func (r *statsRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM violations WHERE status = $1),
			(SELECT count(*) FROM inspections WHERE status IS DISTINCT FROM 'completed' AND source IS DISTINCT FROM 'Complaints'),
			(SELECT count(*) FROM inspections WHERE source = 'Complaints' AND status IS DISTINCT FROM 'completed'),
			(SELECT count(*) FROM licenses WHERE (revoked IS NOT TRUE) AND (expiration_date IS NULL OR expiration_date >= now()))`

	var s models.DashboardStats
	err := r.db.QueryRow(ctx, query, models.ViolationStatusCurrent).Scan(
		&s.OpenViolations,
		&s.PendingInspections,
		&s.UnresolvedComplaints,
		&s.ActiveLicenses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}

	return &s, nil
}

func (r *statsRepository) MapMarkers(ctx context.Context) ([]*models.MapMarker, error) {
	query := `
		SELECT a.id, a.combadd, a.latitude, a.longitude,
		       EXISTS (SELECT 1 FROM violations v WHERE v.address_id = a.id AND v.status = $1)
		       OR EXISTS (SELECT 1 FROM inspections i WHERE i.address_id = a.id AND i.status IS DISTINCT FROM 'completed')
		FROM addresses a
		WHERE a.latitude IS NOT NULL AND a.longitude IS NOT NULL`

	rows, err := r.db.Query(ctx, query, models.ViolationStatusCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to query map markers: %w", err)
	}
	defer rows.Close()

	markers := []*models.MapMarker{}
	for rows.Next() {
		var m models.MapMarker
		if err := rows.Scan(&m.AddressID, &m.Combadd, &m.Latitude, &m.Longitude, &m.OpenWork); err != nil {
			return nil, fmt.Errorf("failed to scan map marker: %w", err)
		}
		markers = append(markers, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating map markers: %w", err)
	}

	return markers, nil
}

func (r *statsRepository) SIRStats(ctx context.Context, start, end time.Time) (*models.SIRStats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM violations WHERE created_at >= $1 AND created_at < $2),
			(SELECT count(*) FROM violations WHERE closed_at >= $1 AND closed_at < $2),
			(SELECT count(*) FROM citations WHERE created_at >= $1 AND created_at < $2),
			(SELECT count(*) FROM inspections WHERE scheduled_datetime >= $1 AND scheduled_datetime < $2),
			(SELECT count(*) FROM licenses WHERE date_issued >= $1 AND date_issued < $2)`

	s := &models.SIRStats{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
	err := r.db.QueryRow(ctx, query, start, end).Scan(
		&s.ViolationsCreated,
		&s.ViolationsResolved,
		&s.CitationsIssued,
		&s.InspectionsScheduled,
		&s.LicensesIssued,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report stats: %w", err)
	}

	return s, nil
}
