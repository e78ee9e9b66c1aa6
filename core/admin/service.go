package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

const statsCacheKey = "admin"

type (
	Repository interface {
		CountUsersByRole(ctx context.Context) (RoleCounts, error)
		CountDonorSubmissions(ctx context.Context) (int, error)
		// CountAtRiskStudents and ListAtRiskStudents use the AtRiskAttendance/NeedsImprovement criteria.
		CountAtRiskStudents(ctx context.Context) (int, error)
		ListAtRiskStudents(ctx context.Context, limit int) ([]AtRiskRecord, error)
		ListDonorSubmissions(ctx context.Context, limit int) ([]DonorSubmission, error)
	}

	// Cache holds computed Stats between requests. Any Get error is treated as a miss.
	Cache interface {
		Get(ctx context.Context, key string, dest interface{}) error
		Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
		Delete(ctx context.Context, keys ...string) error
	}

	Service struct {
		repo     Repository
		cache    Cache
		statsTTL time.Duration
		logger   core.Logger
	}
)

func NewService(repo Repository, cache Cache, statsTTL time.Duration, logger core.Logger) *Service {
	return &Service{repo: repo, cache: cache, statsTTL: statsTTL, logger: logger}
}

// Stats returns platform-wide counters. Results are cached for statsTTL when a cache is set.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if svc.cache != nil && svc.statsTTL > 0 {
		if err := svc.cache.Get(ctx, statsCacheKey, &stats); err == nil {
			return stats, nil
		}
	}

	counts, err := svc.repo.CountUsersByRole(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting users by role")
	}
	donations, err := svc.repo.CountDonorSubmissions(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting donor submissions")
	}
	atRisk, err := svc.repo.CountAtRiskStudents(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting at-risk students")
	}

	stats = Stats{
		TotalUsers:     counts.Total(),
		Students:       counts.Students,
		Teachers:       counts.Teachers,
		TotalDonations: donations,
		ActiveCases:    atRisk,
	}

	if svc.cache != nil && svc.statsTTL > 0 {
		if err := svc.cache.Set(ctx, statsCacheKey, stats, svc.statsTTL); err != nil && svc.logger != nil {
			svc.logger.Warn(fmt.Sprintf("caching stats: %v", err), err)
		}
	}
	return stats, nil
}

// InvalidateStats drops the cached Stats so the next call recomputes them.
func (svc *Service) InvalidateStats(ctx context.Context) error {
	if svc.cache == nil || svc.statsTTL <= 0 {
		return nil
	}
	return errors.Wrap(svc.cache.Delete(ctx, statsCacheKey), "invalidating stats")
}

func (svc *Service) RoleDistribution(ctx context.Context) (RoleDistribution, error) {
	counts, err := svc.repo.CountUsersByRole(ctx)
	if err != nil {
		return RoleDistribution{}, errors.Wrap(err, "counting users by role")
	}

	total := counts.Total()
	return RoleDistribution{
		Students: share(counts.Students, total),
		Teachers: share(counts.Teachers, total),
		Admins:   share(counts.Admins, total),
	}, nil
}

// share renders count/total as a percentage with one decimal, or "0" when there are no users.
func share(count, total int) RoleShare {
	if total == 0 {
		return RoleShare{Count: count, Percentage: "0"}
	}
	pct := float64(count) / float64(total) * 100
	return RoleShare{Count: count, Percentage: strconv.FormatFloat(pct, 'f', 1, 64)}
}

// AtRiskStudents lists up to AtRiskLimit students, lowest attendance first.
func (svc *Service) AtRiskStudents(ctx context.Context) ([]AtRiskStudent, error) {
	recs, err := svc.repo.ListAtRiskStudents(ctx, AtRiskLimit)
	if err != nil {
		return nil, errors.Wrap(err, "listing at-risk students")
	}

	students := make([]AtRiskStudent, 0, len(recs))
	for _, r := range recs {
		severity := SeverityMedium
		if r.Attendance < AtRiskAttendance {
			severity = SeverityHigh
		}
		grade := "N/A"
		if r.Grade.Valid && r.Grade.String != "" {
			grade = r.Grade.String
		}
		students = append(students, AtRiskStudent{
			Name:        r.Name,
			Grade:       grade,
			Attendance:  core.FormatPercent(r.Attendance),
			Performance: r.Performance,
			Severity:    severity,
		})
	}
	return students, nil
}

// DonorSubmissions lists the latest DonorSubmissionsLimit submissions, newest first.
func (svc *Service) DonorSubmissions(ctx context.Context) ([]DonorSubmission, error) {
	subs, err := svc.repo.ListDonorSubmissions(ctx, DonorSubmissionsLimit)
	if err != nil {
		return nil, errors.Wrap(err, "listing donor submissions")
	}
	if subs == nil {
		subs = []DonorSubmission{}
	}
	return subs, nil
}

// IsAtRisk reports whether a student matches the at-risk criteria.
func IsAtRisk(attendance float64, performance string) bool {
	return attendance < AtRiskAttendance || performance == NeedsImprovement
}
