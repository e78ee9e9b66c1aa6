package inmemdb

import (
	"sync"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

// DB is a process-local store. A single lock guards every table so that multi-table
// writes (signup, quiz submission, feedback) are atomic.
type DB struct {
	mu sync.RWMutex

	users            map[string]*user.User
	studentProfiles  map[string]*student.Profile // by user ID
	teacherProfiles  map[string]*teacher.Profile // by user ID
	quizResults      []student.QuizResult
	feedback         []teacher.Feedback
	achievements     []teacher.Achievement
	donorSubmissions []admin.DonorSubmission
}

func Open() *DB {
	return &DB{
		users:           make(map[string]*user.User),
		studentProfiles: make(map[string]*student.Profile),
		teacherProfiles: make(map[string]*teacher.Profile),
	}
}

// AddDonorSubmission stores a submission. Submissions are not created through the API.
func (db *DB) AddDonorSubmission(sub admin.DonorSubmission) admin.DonorSubmission {
	db.mu.Lock()
	defer db.mu.Unlock()

	if sub.ID == "" {
		sub.ID = newID()
	}
	db.donorSubmissions = append(db.donorSubmissions, sub)
	return sub
}

// UpdateStudentProfile applies fn to the profile of the given student user.
func (db *DB) UpdateStudentProfile(userID string, fn func(*student.Profile)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	prof, ok := db.studentProfiles[userID]
	if !ok {
		return student.ErrProfileNotFound
	}
	fn(prof)
	return nil
}
