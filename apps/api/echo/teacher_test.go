package echoapi_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type feedbackResp struct {
	Message  string `json:"message"`
	Feedback struct {
		ID          string `json:"id"`
		TeacherID   string `json:"teacherId"`
		StudentName string `json:"studentName"`
	} `json:"feedback"`
	PointsEarned int `json:"pointsEarned"`
	NewPoints    int `json:"newPoints"`
	NewLevel     int `json:"newLevel"`
}

type teacherProfileResp struct {
	User    map[string]interface{} `json:"user"`
	Profile struct {
		ID           string `json:"id"`
		Points       int    `json:"points"`
		Level        int    `json:"level"`
		Achievements []struct {
			Title string `json:"title"`
		} `json:"achievements"`
		Students []struct {
			StudentName string `json:"studentName"`
		} `json:"students"`
	} `json:"profile"`
}

func feedbackBody(i int) []byte {
	return []byte(fmt.Sprintf(`{"studentName":"Student %d","performance":"Good","feedback":"Keeps improving every week."}`, i))
}

func Test_teacherApi_access(t *testing.T) {
	app := setup(t)
	stud := app.createUser(t, "Student", "student@test.rw", user.RoleStudent)
	admin := app.createUser(t, "Admin", "admin@test.rw", user.RoleAdmin)

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", path: "/api/teacher/profile", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "student forbidden", path: "/api/teacher/profile", token: app.getToken(t, stud),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "student cannot give feedback", method: http.MethodPost, path: "/api/teacher/feedback", token: app.getToken(t, stud),
			body: feedbackBody(1), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "admin without a teacher profile", path: "/api/teacher/profile", token: app.getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "teacher profile not found"}),
		},
		{
			name: "admin can list students", path: "/api/teacher/students", token: app.getToken(t, admin),
			wantCode: http.StatusOK, wantData: []byte(`{"students":[{"id":"` + stud.ID + `","name":"Student","attendance":"85%","performance":"Good"}]}`),
		},
	})
}

func Test_teacherApi_feedback(t *testing.T) {
	app := setup(t)
	tchr := app.createUser(t, "Teacher", "teacher@test.rw", user.RoleTeacher)
	token := app.getToken(t, tchr)

	runHTTPTests(t, app, []httpTest{
		{
			name: "validation", method: http.MethodPost, path: "/api/teacher/feedback", token: token,
			body:     []byte(`{"studentName":"Grace","feedback":"too short"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"error":"validation error","details":[` +
				`{"field":"performance","error":"performance is required"},` +
				`{"field":"feedback","error":"feedback must be at least 10 characters in length"}]}`),
		},
	})

	t.Run("first feedback", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/teacher/feedback", token, feedbackBody(0))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp feedbackResp
		unmarshall(t, rec, &resp)
		assert.Equal(t, "Feedback submitted successfully", resp.Message)
		assert.NotEmpty(t, resp.Feedback.ID)
		assert.Equal(t, "Student 0", resp.Feedback.StudentName)
		assert.Equal(t, 30, resp.PointsEarned)
		assert.Equal(t, 30, resp.NewPoints)
		assert.Equal(t, 1, resp.NewLevel)
	})

	t.Run("level up after 17 feedbacks", func(t *testing.T) {
		var resp feedbackResp
		for i := 1; i < 17; i++ {
			rec := app.do(http.MethodPost, "/api/teacher/feedback", token, feedbackBody(i))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			unmarshall(t, rec, &resp)
		}
		assert.Equal(t, 510, resp.NewPoints)
		assert.Equal(t, 2, resp.NewLevel)

		rec := app.do(http.MethodGet, "/api/teacher/profile", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var prof teacherProfileResp
		unmarshall(t, rec, &prof)
		assert.Equal(t, tchr.ID, prof.User["id"])
		assert.Equal(t, 510, prof.Profile.Points)
		assert.Equal(t, 2, prof.Profile.Level)
		require.Len(t, prof.Profile.Achievements, 1)
		assert.Equal(t, "Reached level 2", prof.Profile.Achievements[0].Title)
		require.Len(t, prof.Profile.Students, 10)
		assert.Equal(t, "Student 16", prof.Profile.Students[0].StudentName)
	})
}

func Test_teacherApi_feedback_concurrent(t *testing.T) {
	app := setup(t)
	tchr := app.createUser(t, "Teacher", "teacher@test.rw", user.RoleTeacher)
	token := app.getToken(t, tchr)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := app.do(http.MethodPost, "/api/teacher/feedback", token, feedbackBody(i))
			assert.Equal(t, http.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	rec := app.do(http.MethodGet, "/api/teacher/profile", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var prof teacherProfileResp
	unmarshall(t, rec, &prof)
	assert.Equal(t, n*30, prof.Profile.Points)
	assert.Equal(t, n*30/500+1, prof.Profile.Level)
	assert.Len(t, prof.Profile.Achievements, 1)
}

func Test_teacherApi_quizSummaries(t *testing.T) {
	app := setup(t)
	tchr := app.createUser(t, "Teacher", "teacher@test.rw", user.RoleTeacher)
	s1 := app.createUser(t, "Uwase", "uwase@test.rw", user.RoleStudent)
	s2 := app.createUser(t, "Mugabo", "mugabo@test.rw", user.RoleStudent)

	runHTTPTests(t, app, []httpTest{
		{
			name: "empty", path: "/api/teacher/students/quiz-summaries", token: app.getToken(t, tchr),
			wantCode: http.StatusOK, wantData: []byte(`{"summaries":[]}`),
		},
	})

	for _, s := range []user.User{s1, s2} {
		rec := app.do(http.MethodPost, "/api/student/quiz", app.getToken(t, s), []byte(`{"interests":["math","`+s.Name+`"]}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := app.do(http.MethodGet, "/api/teacher/students/quiz-summaries", app.getToken(t, tchr))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summaries []student.QuizSummary `json:"summaries"`
	}
	unmarshall(t, rec, &resp)
	require.Len(t, resp.Summaries, 2)
	assert.Equal(t, s2.ID, resp.Summaries[0].StudentID)
	assert.Equal(t, "Mugabo", resp.Summaries[0].StudentName)
	assert.Equal(t, []string{"math", "Mugabo"}, []string(resp.Summaries[0].Interests))
	assert.Equal(t, s1.ID, resp.Summaries[1].StudentID)
}
