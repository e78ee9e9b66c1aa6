package inmemdb

import (
	"context"
	"sort"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type adminRepository struct {
	db *DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *DB) *adminRepository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CountUsersByRole(_ context.Context) (admin.RoleCounts, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var counts admin.RoleCounts
	for _, usr := range repo.db.users {
		switch usr.Role {
		case user.RoleStudent:
			counts.Students++
		case user.RoleTeacher:
			counts.Teachers++
		case user.RoleAdmin:
			counts.Admins++
		}
	}
	return counts, nil
}

func (repo *adminRepository) CountDonorSubmissions(_ context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return len(repo.db.donorSubmissions), nil
}

// atRisk must be called with the lock held.
func (repo *adminRepository) atRisk() []admin.AtRiskRecord {
	var recs []admin.AtRiskRecord
	for userID, prof := range repo.db.studentProfiles {
		if !admin.IsAtRisk(prof.Attendance, prof.Performance) {
			continue
		}
		rec := admin.AtRiskRecord{
			Grade:       prof.Grade,
			Attendance:  prof.Attendance,
			Performance: prof.Performance,
		}
		if usr, ok := repo.db.users[userID]; ok {
			rec.Name = usr.Name
			rec.Email = usr.Email
		}
		recs = append(recs, rec)
	}
	return recs
}

func (repo *adminRepository) CountAtRiskStudents(_ context.Context) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return len(repo.atRisk()), nil
}

func (repo *adminRepository) ListAtRiskStudents(_ context.Context, limit int) ([]admin.AtRiskRecord, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	recs := repo.atRisk()
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Attendance != recs[j].Attendance {
			return recs[i].Attendance < recs[j].Attendance
		}
		return recs[i].Name < recs[j].Name
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (repo *adminRepository) ListDonorSubmissions(_ context.Context, limit int) ([]admin.DonorSubmission, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	subs := make([]admin.DonorSubmission, len(repo.db.donorSubmissions))
	copy(subs, repo.db.donorSubmissions)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}
