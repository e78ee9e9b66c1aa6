package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

// Profile defaults for newly registered students.
const (
	DefaultAttendance  = 85
	DefaultPerformance = "Good"
)

type Profile struct {
	ID          string         `json:"id" db:"id"`
	UserID      string         `json:"userId" db:"user_id"`
	Grade       null.String    `json:"grade" db:"grade"`
	Attendance  float64        `json:"attendance" db:"attendance"`
	Performance string         `json:"performance" db:"performance"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// NewProfile returns the profile created alongside a student User.
func NewProfile(userID string, now time.Time) Profile {
	return Profile{
		UserID:      userID,
		Attendance:  DefaultAttendance,
		Performance: DefaultPerformance,
		Interests:   pq.StringArray{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type QuizResult struct {
	ID          string         `json:"id" db:"id"`
	StudentID   string         `json:"studentId" db:"student_id"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	CompletedAt time.Time      `json:"completedAt" db:"completed_at"`
}

// QuizSubmission is the answer set of the interests quiz, in the order the student ranked them.
type QuizSubmission struct {
	Interests []string `json:"interests" validate:"required,max=20,dive,notblank,max=100"`
}

func (qs *QuizSubmission) Validate(validate *validator.Validate) error {
	for i, interest := range qs.Interests {
		qs.Interests[i] = core.CleanString(interest)
	}
	return validate.Struct(qs)
}

// QuizResults is the student's current interests and their most recent quiz, if any.
type QuizResults struct {
	Interests    []string    `json:"interests"`
	LatestResult *QuizResult `json:"latestResult"`
}

// QuizSummary is a quiz result as listed to teachers.
type QuizSummary struct {
	StudentID   string         `json:"studentId" db:"student_user_id"`
	StudentName string         `json:"studentName" db:"student_name"`
	Interests   pq.StringArray `json:"interests" db:"interests"`
	CompletedAt time.Time      `json:"completedAt" db:"completed_at"`
}
