package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// QuizSummaryLimit caps the summaries listed to teachers.
const QuizSummaryLimit = 20

var (
	// errors
	ErrProfileNotFound = errors.New("student profile not found")
	ErrNoQuizResult    = errors.New("no quiz result")
)

type (
	Repository interface {
		GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
		// SaveQuizResult appends the result and replaces the profile interests in one transaction.
		SaveQuizResult(ctx context.Context, profileID string, interests []string) (QuizResult, error)
		// LatestQuizResult returns ErrNoQuizResult when the student never took the quiz.
		LatestQuizResult(ctx context.Context, profileID string) (QuizResult, error)
		RecentQuizSummaries(ctx context.Context, limit int) ([]QuizSummary, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfileByUserID(ctx, userID)
}

func (svc *Service) SubmitQuiz(ctx context.Context, userID string, qs QuizSubmission) (QuizResult, error) {
	if err := qs.Validate(svc.validate); err != nil {
		return QuizResult{}, err
	}

	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return QuizResult{}, err
	}
	res, err := svc.repo.SaveQuizResult(ctx, prof.ID, qs.Interests)
	if err != nil {
		return QuizResult{}, errors.Wrap(err, "saving quiz result")
	}
	return res, nil
}

func (svc *Service) QuizResults(ctx context.Context, userID string) (QuizResults, error) {
	prof, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return QuizResults{}, err
	}

	results := QuizResults{Interests: prof.Interests}
	if results.Interests == nil {
		results.Interests = []string{}
	}

	latest, err := svc.repo.LatestQuizResult(ctx, prof.ID)
	switch {
	case err == nil:
		results.LatestResult = &latest
	case errors.Is(err, ErrNoQuizResult):
	default:
		return QuizResults{}, errors.Wrap(err, "finding latest quiz result")
	}
	return results, nil
}

// QuizSummaries lists the most recent quiz results across all students, newest first.
func (svc *Service) QuizSummaries(ctx context.Context) ([]QuizSummary, error) {
	sums, err := svc.repo.RecentQuizSummaries(ctx, QuizSummaryLimit)
	if err != nil {
		return nil, err
	}
	if sums == nil {
		sums = []QuizSummary{}
	}
	return sums, nil
}
