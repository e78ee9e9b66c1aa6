package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

type Profile struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Points    int       `json:"points" db:"points"`
	Level     int       `json:"level" db:"level"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NewProfile returns the profile created alongside a teacher User.
func NewProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID:    userID,
		Points:    0,
		Level:     LevelFor(0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type Achievement struct {
	ID          string    `json:"id" db:"id"`
	TeacherID   string    `json:"teacherId" db:"teacher_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	EarnedAt    time.Time `json:"earnedAt" db:"earned_at"`
}

type Feedback struct {
	ID          string    `json:"id" db:"id"`
	TeacherID   string    `json:"teacherId" db:"teacher_id"`
	StudentName string    `json:"studentName" db:"student_name"`
	Performance string    `json:"performance" db:"performance"`
	Feedback    string    `json:"feedback" db:"feedback"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type NewFeedback struct {
	StudentName string `json:"studentName" validate:"required"`
	Performance string `json:"performance" validate:"required"`
	Feedback    string `json:"feedback" validate:"required,min=10"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.StudentName = core.CleanString(nf.StudentName)
	nf.Performance = core.CleanString(nf.Performance)
	nf.Feedback = core.CleanString(nf.Feedback)
	return validate.Struct(nf)
}

// FeedbackReceipt is the outcome of a feedback submission.
type FeedbackReceipt struct {
	Feedback     Feedback `json:"feedback"`
	PointsEarned int      `json:"pointsEarned"`
	NewPoints    int      `json:"newPoints"`
	NewLevel     int      `json:"newLevel"`
}

// ProfileDetails is a profile with its achievements and latest feedback entries.
type ProfileDetails struct {
	Profile
	Achievements []Achievement `json:"achievements"`
	Students     []Feedback    `json:"students"`
}

// StudentSummary is a student as listed to teachers.
type StudentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Attendance  string `json:"attendance"`
	Performance string `json:"performance"`
}

// StudentRecord is the stored data behind a StudentSummary.
type StudentRecord struct {
	UserID      string  `db:"user_id"`
	Name        string  `db:"name"`
	Attendance  float64 `db:"attendance"`
	Performance string  `db:"performance"`
}
