package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) GetProfileByUserID(_ context.Context, userID string) (student.Profile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if prof, ok := repo.db.studentProfiles[userID]; ok {
		return copyProfile(*prof), nil
	}
	return student.Profile{}, student.ErrProfileNotFound
}

// findProfile must be called with the lock held.
func (repo *studentRepository) findProfile(profileID string) *student.Profile {
	for _, prof := range repo.db.studentProfiles {
		if prof.ID == profileID {
			return prof
		}
	}
	return nil
}

func (repo *studentRepository) SaveQuizResult(_ context.Context, profileID string, interests []string) (student.QuizResult, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	prof := repo.findProfile(profileID)
	if prof == nil {
		return student.QuizResult{}, student.ErrProfileNotFound
	}

	now := time.Now().UTC()
	res := student.QuizResult{
		ID:          newID(),
		StudentID:   profileID,
		Interests:   copyStrings(interests),
		CompletedAt: now,
	}
	repo.db.quizResults = append(repo.db.quizResults, res)
	prof.Interests = copyStrings(interests)
	prof.UpdatedAt = now
	return res, nil
}

// LatestQuizResult relies on quizResults being append-only, so the last match is the newest.
func (repo *studentRepository) LatestQuizResult(_ context.Context, profileID string) (student.QuizResult, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for i := len(repo.db.quizResults) - 1; i >= 0; i-- {
		if res := repo.db.quizResults[i]; res.StudentID == profileID {
			res.Interests = copyStrings(res.Interests)
			return res, nil
		}
	}
	return student.QuizResult{}, student.ErrNoQuizResult
}

func (repo *studentRepository) RecentQuizSummaries(_ context.Context, limit int) ([]student.QuizSummary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	sums := make([]student.QuizSummary, 0, limit)
	for i := len(repo.db.quizResults) - 1; i >= 0 && len(sums) < limit; i-- {
		res := repo.db.quizResults[i]
		prof := repo.findProfile(res.StudentID)
		if prof == nil {
			continue
		}
		var name string
		if usr, ok := repo.db.users[prof.UserID]; ok {
			name = usr.Name
		}
		sums = append(sums, student.QuizSummary{
			StudentID:   prof.UserID,
			StudentName: name,
			Interests:   copyStrings(res.Interests),
			CompletedAt: res.CompletedAt,
		})
	}
	sort.SliceStable(sums, func(i, j int) bool { return sums[i].CompletedAt.After(sums[j].CompletedAt) })
	return sums, nil
}

func copyProfile(prof student.Profile) student.Profile {
	prof.Interests = copyStrings(prof.Interests)
	return prof
}

func copyStrings(ss []string) pq.StringArray {
	out := make(pq.StringArray, len(ss))
	copy(out, ss)
	return out
}
