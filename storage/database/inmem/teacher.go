package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) GetProfileByUserID(_ context.Context, userID string) (teacher.Profile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if prof, ok := repo.db.teacherProfiles[userID]; ok {
		return *prof, nil
	}
	return teacher.Profile{}, teacher.ErrProfileNotFound
}

func (repo *teacherRepository) ListAchievements(_ context.Context, teacherID string) ([]teacher.Achievement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var achievements []teacher.Achievement
	for i := len(repo.db.achievements) - 1; i >= 0; i-- {
		if a := repo.db.achievements[i]; a.TeacherID == teacherID {
			achievements = append(achievements, a)
		}
	}
	return achievements, nil
}

func (repo *teacherRepository) RecentFeedback(_ context.Context, teacherID string, limit int) ([]teacher.Feedback, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var feedback []teacher.Feedback
	for i := len(repo.db.feedback) - 1; i >= 0 && len(feedback) < limit; i-- {
		if fb := repo.db.feedback[i]; fb.TeacherID == teacherID {
			feedback = append(feedback, fb)
		}
	}
	return feedback, nil
}

// AddFeedback holds the write lock across the insert and the points update.
func (repo *teacherRepository) AddFeedback(
	_ context.Context,
	teacherID string,
	fb teacher.Feedback,
	earned int,
) (teacher.Feedback, teacher.Award, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var prof *teacher.Profile
	for _, p := range repo.db.teacherProfiles {
		if p.ID == teacherID {
			prof = p
			break
		}
	}
	if prof == nil {
		return teacher.Feedback{}, teacher.Award{}, teacher.ErrProfileNotFound
	}

	fb.ID = newID()
	fb.TeacherID = teacherID
	repo.db.feedback = append(repo.db.feedback, fb)

	now := time.Now().UTC()
	prof.Points += earned
	prof.Level = teacher.LevelFor(prof.Points)
	prof.UpdatedAt = now

	award := teacher.NewAward(prof.Points, earned)
	if award.LevelUp {
		title, desc := teacher.LevelAchievement(award.Level)
		repo.db.achievements = append(repo.db.achievements, teacher.Achievement{
			ID:          newID(),
			TeacherID:   teacherID,
			Title:       title,
			Description: desc,
			EarnedAt:    now,
		})
	}
	return fb, award, nil
}

func (repo *teacherRepository) ListStudents(_ context.Context) ([]teacher.StudentRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	recs := make([]teacher.StudentRecord, 0, len(repo.db.studentProfiles))
	for userID, prof := range repo.db.studentProfiles {
		var name string
		if usr, ok := repo.db.users[userID]; ok {
			name = usr.Name
		}
		recs = append(recs, teacher.StudentRecord{
			UserID:      userID,
			Name:        name,
			Attendance:  prof.Attendance,
			Performance: prof.Performance,
		})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
	return recs, nil
}
