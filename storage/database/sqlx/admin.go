package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
)

const atRiskCondition = "sp.attendance < $1 OR sp.performance = $2"

type adminRepository struct {
	db core.DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db core.DB) *adminRepository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CountUsersByRole(ctx context.Context) (admin.RoleCounts, error) {
	var counts admin.RoleCounts
	q := `SELECT
			COUNT(*) FILTER (WHERE role = 'student') AS students,
			COUNT(*) FILTER (WHERE role = 'teacher') AS teachers,
			COUNT(*) FILTER (WHERE role = 'admin') AS admins
		FROM users`
	if err := repo.db.GetContext(ctx, &counts, q); err != nil {
		return admin.RoleCounts{}, errors.Wrap(err, "counting users")
	}
	return counts, nil
}

func (repo *adminRepository) CountDonorSubmissions(ctx context.Context) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM donor_submissions"); err != nil {
		return 0, errors.Wrap(err, "counting donor submissions")
	}
	return n, nil
}

func (repo *adminRepository) CountAtRiskStudents(ctx context.Context) (int, error) {
	var n int
	q := "SELECT COUNT(*) FROM student_profiles sp WHERE " + atRiskCondition
	if err := repo.db.GetContext(ctx, &n, q, admin.AtRiskAttendance, admin.NeedsImprovement); err != nil {
		return 0, errors.Wrap(err, "counting at-risk students")
	}
	return n, nil
}

func (repo *adminRepository) ListAtRiskStudents(ctx context.Context, limit int) ([]admin.AtRiskRecord, error) {
	var recs []admin.AtRiskRecord
	q := `SELECT u.name, u.email, sp.grade, sp.attendance, sp.performance
		FROM student_profiles sp
		JOIN users u ON u.id = sp.user_id
		WHERE ` + atRiskCondition + `
		ORDER BY sp.attendance ASC
		LIMIT $3`
	if err := repo.db.SelectContext(ctx, &recs, q, admin.AtRiskAttendance, admin.NeedsImprovement, limit); err != nil {
		return nil, errors.Wrap(err, "selecting at-risk students")
	}
	return recs, nil
}

func (repo *adminRepository) ListDonorSubmissions(ctx context.Context, limit int) ([]admin.DonorSubmission, error) {
	var subs []admin.DonorSubmission
	q := `SELECT id, full_name, email, phone_number, organization, donation_type, payment_method,
			estimated_amount, reason, receive_updates, submitted_at
		FROM donor_submissions
		ORDER BY submitted_at DESC
		LIMIT $1`
	if err := repo.db.SelectContext(ctx, &subs, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting donor submissions")
	}
	return subs, nil
}
