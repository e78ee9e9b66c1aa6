package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
)

type teacherRepository struct {
	db core.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db core.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) GetProfileByUserID(ctx context.Context, userID string) (teacher.Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return teacher.Profile{}, teacher.ErrProfileNotFound
	}
	var prof teacher.Profile
	q := "SELECT id, user_id, points, level, created_at, updated_at FROM teacher_profiles WHERE user_id = $1"
	if err := repo.db.GetContext(ctx, &prof, q, userID); err != nil {
		return teacher.Profile{}, trapNoRowsErr(err, teacher.ErrProfileNotFound)
	}
	return prof, nil
}

func (repo *teacherRepository) ListAchievements(ctx context.Context, teacherID string) ([]teacher.Achievement, error) {
	var achievements []teacher.Achievement
	q := `SELECT id, teacher_id, title, description, earned_at FROM achievements
		WHERE teacher_id = $1 ORDER BY earned_at DESC`
	if err := repo.db.SelectContext(ctx, &achievements, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "selecting achievements")
	}
	return achievements, nil
}

func (repo *teacherRepository) RecentFeedback(ctx context.Context, teacherID string, limit int) ([]teacher.Feedback, error) {
	var feedback []teacher.Feedback
	q := `SELECT id, teacher_id, student_name, performance, feedback, created_at FROM student_feedback
		WHERE teacher_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := repo.db.SelectContext(ctx, &feedback, q, teacherID, limit); err != nil {
		return nil, errors.Wrap(err, "selecting feedback")
	}
	return feedback, nil
}

// AddFeedback credits the points with a single UPDATE so the row lock taken by Postgres
// serializes concurrent submissions for the same teacher.
func (repo *teacherRepository) AddFeedback(
	ctx context.Context,
	teacherID string,
	fb teacher.Feedback,
	earned int,
) (teacher.Feedback, teacher.Award, error) {
	fb.ID = uuid.NewString()
	fb.TeacherID = teacherID

	var award teacher.Award
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO student_feedback (id, teacher_id, student_name, performance, feedback, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.ExecContext(ctx, q,
			fb.ID, fb.TeacherID, fb.StudentName, fb.Performance, fb.Feedback, fb.CreatedAt,
		); err != nil {
			return errors.Wrap(err, "inserting feedback")
		}

		var points int
		q = `UPDATE teacher_profiles
			SET points = points + $1, level = (points + $1) / $2 + 1, updated_at = now()
			WHERE id = $3
			RETURNING points`
		if err := tx.GetContext(ctx, &points, q, earned, teacher.PointsPerLevel, teacherID); err != nil {
			return trapNoRowsErr(err, teacher.ErrProfileNotFound)
		}

		award = teacher.NewAward(points, earned)
		if !award.LevelUp {
			return nil
		}
		title, desc := teacher.LevelAchievement(award.Level)
		q = `INSERT INTO achievements (id, teacher_id, title, description, earned_at) VALUES ($1, $2, $3, $4, now())`
		_, err := tx.ExecContext(ctx, q, uuid.NewString(), teacherID, title, desc)
		return errors.Wrap(err, "inserting achievement")
	})
	if err != nil {
		return teacher.Feedback{}, teacher.Award{}, err
	}
	return fb, award, nil
}

func (repo *teacherRepository) ListStudents(ctx context.Context) ([]teacher.StudentRecord, error) {
	var recs []teacher.StudentRecord
	q := `SELECT u.id AS user_id, u.name, sp.attendance, sp.performance
		FROM student_profiles sp
		JOIN users u ON u.id = sp.user_id
		ORDER BY u.name`
	if err := repo.db.SelectContext(ctx, &recs, q); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return recs, nil
}
