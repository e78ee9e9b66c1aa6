package teacher_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
	inmemdb "github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database/inmem"
	testutil "github.com/iclaudiaadeline/Inzozi-Rwanda/tests"
)

type fixture struct {
	svc     *teacher.Service
	db      *inmemdb.DB
	usrRepo user.Repository
}

func setup(t *testing.T) fixture {
	t.Helper()
	validate, _ := testutil.NewValidator()
	db := inmemdb.Open()
	return fixture{
		svc:     teacher.NewService(inmemdb.NewTeacherRepository(db), validate),
		db:      db,
		usrRepo: inmemdb.NewUserRepository(db),
	}
}

func newFeedback(i int) teacher.NewFeedback {
	return teacher.NewFeedback{
		StudentName: fmt.Sprintf("Student %d", i),
		Performance: "Good",
		Feedback:    "Participates well in class.",
	}
}

func TestService_SubmitFeedback_sequential(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tchr := testutil.CreateUser(t, f.usrRepo, "Teacher", "teacher@test.rw", "", user.RoleTeacher)

	for i := 1; i <= 17; i++ {
		receipt, err := f.svc.SubmitFeedback(ctx, tchr.ID, newFeedback(i))
		require.NoError(t, err)
		assert.Equal(t, teacher.PointsPerFeedback, receipt.PointsEarned)
		assert.Equal(t, 30*i, receipt.NewPoints)
		assert.Equal(t, 30*i/500+1, receipt.NewLevel)
		assert.Equal(t, fmt.Sprintf("Student %d", i), receipt.Feedback.StudentName)
	}

	details, err := f.svc.Profile(ctx, tchr.ID)
	require.NoError(t, err)
	assert.Equal(t, 510, details.Points)
	assert.Equal(t, 2, details.Level)
	require.Len(t, details.Achievements, 1)
	assert.Equal(t, "Reached level 2", details.Achievements[0].Title)
	require.Len(t, details.Students, teacher.RecentFeedbackLimit)
	assert.Equal(t, "Student 17", details.Students[0].StudentName)
	assert.Equal(t, "Student 8", details.Students[9].StudentName)
}

func TestService_SubmitFeedback_concurrent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tchr := testutil.CreateUser(t, f.usrRepo, "Teacher", "teacher@test.rw", "", user.RoleTeacher)

	const n = 50
	var wg sync.WaitGroup
	totals := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := f.svc.SubmitFeedback(ctx, tchr.ID, newFeedback(i))
			if assert.NoError(t, err) {
				totals <- receipt.NewPoints
			}
		}(i)
	}
	wg.Wait()
	close(totals)

	// every award saw a distinct total
	seen := make(map[int]bool, n)
	for pts := range totals {
		assert.False(t, seen[pts], "points %d awarded twice", pts)
		seen[pts] = true
	}
	assert.Len(t, seen, n)

	details, err := f.svc.Profile(ctx, tchr.ID)
	require.NoError(t, err)
	assert.Equal(t, n*teacher.PointsPerFeedback, details.Points)
	assert.Equal(t, teacher.LevelFor(n*teacher.PointsPerFeedback), details.Level)
	assert.Len(t, details.Achievements, teacher.LevelFor(n*teacher.PointsPerFeedback)-1)
}

func TestService_SubmitFeedback_validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tchr := testutil.CreateUser(t, f.usrRepo, "Teacher", "teacher@test.rw", "", user.RoleTeacher)

	tests := []struct {
		name       string
		nf         teacher.NewFeedback
		wantFields []string
	}{
		{name: "empty", nf: teacher.NewFeedback{}, wantFields: []string{"studentName", "performance", "feedback"}},
		{name: "short feedback", nf: teacher.NewFeedback{StudentName: "Grace", Performance: "Good", Feedback: "  ok  "}, wantFields: []string{"feedback"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SubmitFeedback(ctx, tchr.ID, tt.nf)

			var valErrs validator.ValidationErrors
			require.True(t, errors.As(err, &valErrs), "err = %v", err)
			fields := make([]string, 0, len(valErrs))
			for _, fe := range valErrs {
				fields = append(fields, fe.Field())
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}

	details, err := f.svc.Profile(ctx, tchr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, details.Points)
	assert.Equal(t, 1, details.Level)
	assert.Empty(t, details.Students)
}

func TestService_noProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	stud := testutil.CreateUser(t, f.usrRepo, "Student", "student@test.rw", "", user.RoleStudent)

	_, err := f.svc.Profile(ctx, stud.ID)
	assert.Equal(t, teacher.ErrProfileNotFound, err)

	_, err = f.svc.SubmitFeedback(ctx, stud.ID, newFeedback(1))
	assert.Equal(t, teacher.ErrProfileNotFound, err)
}

func TestService_Students(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.usrRepo, "Aline", "aline@test.rw", "", user.RoleStudent)
	b := testutil.CreateUser(t, f.usrRepo, "Bosco", "bosco@test.rw", "", user.RoleStudent)
	testutil.CreateUser(t, f.usrRepo, "Teacher", "teacher@test.rw", "", user.RoleTeacher)

	require.NoError(t, f.db.UpdateStudentProfile(b.ID, func(p *student.Profile) {
		p.Attendance = 72.5
		p.Performance = "Needs Improvement"
	}))

	sums, err := f.svc.Students(ctx)
	require.NoError(t, err)
	assert.Equal(t, []teacher.StudentSummary{
		{ID: a.ID, Name: "Aline", Attendance: "85%", Performance: "Good"},
		{ID: b.ID, Name: "Bosco", Attendance: "72.5%", Performance: "Needs Improvement"},
	}, sums)
}
