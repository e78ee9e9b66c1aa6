package teacher

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

// RecentFeedbackLimit caps the feedback entries shown on a teacher profile.
const RecentFeedbackLimit = 10

var (
	// errors
	ErrProfileNotFound = errors.New("teacher profile not found")
)

type (
	Repository interface {
		GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
		ListAchievements(ctx context.Context, teacherID string) ([]Achievement, error)
		RecentFeedback(ctx context.Context, teacherID string, limit int) ([]Feedback, error)
		// AddFeedback stores fb and credits `earned` points to the teacher as one atomic step.
		// Concurrent calls for the same teacher must never lose points.
		AddFeedback(ctx context.Context, teacherID string, fb Feedback, earned int) (Feedback, Award, error)
		ListStudents(ctx context.Context) ([]StudentRecord, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Profile(ctx context.Context, userID string) (ProfileDetails, error) {
	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return ProfileDetails{}, err
	}

	achievements, err := svc.repo.ListAchievements(ctx, prof.ID)
	if err != nil {
		return ProfileDetails{}, errors.Wrap(err, "listing achievements")
	}
	feedback, err := svc.repo.RecentFeedback(ctx, prof.ID, RecentFeedbackLimit)
	if err != nil {
		return ProfileDetails{}, errors.Wrap(err, "listing recent feedback")
	}

	if achievements == nil {
		achievements = []Achievement{}
	}
	if feedback == nil {
		feedback = []Feedback{}
	}
	return ProfileDetails{Profile: prof, Achievements: achievements, Students: feedback}, nil
}

// SubmitFeedback records feedback on a student and awards the teacher PointsPerFeedback points.
func (svc *Service) SubmitFeedback(ctx context.Context, userID string, nf NewFeedback) (FeedbackReceipt, error) {
	if err := nf.Validate(svc.validate); err != nil {
		return FeedbackReceipt{}, err
	}

	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return FeedbackReceipt{}, err
	}

	fb := Feedback{
		TeacherID:   prof.ID,
		StudentName: nf.StudentName,
		Performance: nf.Performance,
		Feedback:    nf.Feedback,
		CreatedAt:   time.Now().UTC(),
	}
	fb, award, err := svc.repo.AddFeedback(ctx, prof.ID, fb, PointsPerFeedback)
	if err != nil {
		return FeedbackReceipt{}, errors.Wrap(err, "adding feedback")
	}

	return FeedbackReceipt{
		Feedback:     fb,
		PointsEarned: PointsPerFeedback,
		NewPoints:    award.Points,
		NewLevel:     award.Level,
	}, nil
}

// Students lists every registered student with attendance rendered as a percentage.
func (svc *Service) Students(ctx context.Context) ([]StudentSummary, error) {
	recs, err := svc.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	sums := make([]StudentSummary, 0, len(recs))
	for _, r := range recs {
		sums = append(sums, StudentSummary{
			ID:          r.UserID,
			Name:        r.Name,
			Attendance:  core.FormatPercent(r.Attendance),
			Performance: r.Performance,
		})
	}
	return sums, nil
}
