package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

const userColumns = "id, email, name, password_hash, role, created_at, updated_at"

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)"
	if err := repo.db.GetContext(ctx, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()

	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, q,
			usr.ID, usr.Email, usr.Name, usr.PasswordHash, usr.Role, usr.CreatedAt, usr.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return user.ErrEmailExists
			}
			return errors.Wrap(err, "inserting user")
		}

		switch usr.Role {
		case user.RoleStudent:
			return insertStudentProfile(ctx, tx, student.NewProfile(usr.ID, usr.CreatedAt))
		case user.RoleTeacher:
			return insertTeacherProfile(ctx, tx, teacher.NewProfile(usr.ID, usr.CreatedAt))
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func insertStudentProfile(ctx context.Context, tx *sqlx.Tx, prof student.Profile) error {
	q := `INSERT INTO student_profiles (id, user_id, grade, attendance, performance, interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := tx.ExecContext(ctx, q,
		uuid.NewString(), prof.UserID, prof.Grade, prof.Attendance, prof.Performance, prof.Interests,
		prof.CreatedAt, prof.UpdatedAt,
	)
	return errors.Wrap(err, "inserting student profile")
}

func insertTeacherProfile(ctx context.Context, tx *sqlx.Tx, prof teacher.Profile) error {
	q := `INSERT INTO teacher_profiles (id, user_id, points, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecContext(ctx, q,
		uuid.NewString(), prof.UserID, prof.Points, prof.Level, prof.CreatedAt, prof.UpdatedAt,
	)
	return errors.Wrap(err, "inserting teacher profile")
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	var usr user.User
	q := "SELECT " + userColumns + " FROM users WHERE id = $1"
	if err := repo.db.GetContext(ctx, &usr, q, id); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	q := "SELECT " + userColumns + " FROM users WHERE email = $1"
	if err := repo.db.GetContext(ctx, &usr, q, email); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound)
	}
	return usr, nil
}

func (repo *userRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	q := "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2"
	res, err := repo.db.ExecContext(ctx, q, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}
