package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
)

const studentProfileColumns = "id, user_id, grade, attendance, performance, interests, created_at, updated_at"

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) GetProfileByUserID(ctx context.Context, userID string) (student.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return student.Profile{}, student.ErrProfileNotFound
	}
	var prof student.Profile
	q := "SELECT " + studentProfileColumns + " FROM student_profiles WHERE user_id = $1"
	if err := repo.db.GetContext(ctx, &prof, q, userID); err != nil {
		return student.Profile{}, trapNoRowsErr(err, student.ErrProfileNotFound)
	}
	return prof, nil
}

func (repo *studentRepository) SaveQuizResult(ctx context.Context, profileID string, interests []string) (student.QuizResult, error) {
	res := student.QuizResult{
		ID:          uuid.NewString(),
		StudentID:   profileID,
		Interests:   pq.StringArray(interests),
		CompletedAt: time.Now().UTC(),
	}

	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := "INSERT INTO quiz_results (id, student_id, interests, completed_at) VALUES ($1, $2, $3, $4)"
		if _, err := tx.ExecContext(ctx, q, res.ID, res.StudentID, res.Interests, res.CompletedAt); err != nil {
			return errors.Wrap(err, "inserting quiz result")
		}

		q = "UPDATE student_profiles SET interests = $1, updated_at = $2 WHERE id = $3"
		r, err := tx.ExecContext(ctx, q, res.Interests, res.CompletedAt, profileID)
		if err != nil {
			return errors.Wrap(err, "updating interests")
		}
		if n, err := r.RowsAffected(); err == nil && n == 0 {
			return student.ErrProfileNotFound
		}
		return nil
	})
	if err != nil {
		return student.QuizResult{}, err
	}
	return res, nil
}

func (repo *studentRepository) LatestQuizResult(ctx context.Context, profileID string) (student.QuizResult, error) {
	var res student.QuizResult
	q := `SELECT id, student_id, interests, completed_at FROM quiz_results
		WHERE student_id = $1 ORDER BY completed_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &res, q, profileID); err != nil {
		return student.QuizResult{}, trapNoRowsErr(err, student.ErrNoQuizResult)
	}
	return res, nil
}

func (repo *studentRepository) RecentQuizSummaries(ctx context.Context, limit int) ([]student.QuizSummary, error) {
	sums := make([]student.QuizSummary, 0, limit)
	q := `SELECT sp.user_id AS student_user_id, u.name AS student_name, qr.interests, qr.completed_at
		FROM quiz_results qr
		JOIN student_profiles sp ON sp.id = qr.student_id
		JOIN users u ON u.id = sp.user_id
		ORDER BY qr.completed_at DESC
		LIMIT $1`
	if err := repo.db.SelectContext(ctx, &sums, q, limit); err != nil {
		return nil, errors.Wrap(err, "selecting quiz summaries")
	}
	return sums, nil
}
