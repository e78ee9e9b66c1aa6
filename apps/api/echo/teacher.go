package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	teacherProfileResponse struct {
		User    userSummary            `json:"user"`
		Profile teacher.ProfileDetails `json:"profile"`
	}

	feedbackResponse struct {
		Message      string           `json:"message"`
		Feedback     teacher.Feedback `json:"feedback"`
		PointsEarned int              `json:"pointsEarned"`
		NewPoints    int              `json:"newPoints"`
		NewLevel     int              `json:"newLevel"`
	}

	studentsResponse struct {
		Students []teacher.StudentSummary `json:"students"`
	}

	quizSummariesResponse struct {
		Summaries []student.QuizSummary `json:"summaries"`
	}
)

type teacherApi struct {
	userSvc    *user.Service
	svc        *teacher.Service
	studentSvc *student.Service
}

func registerTeacherAPI(
	g *echo.Group,
	authed echo.MiddlewareFunc,
	userSvc *user.Service,
	svc *teacher.Service,
	studentSvc *student.Service,
) {
	api := teacherApi{userSvc: userSvc, svc: svc, studentSvc: studentSvc}

	tg := g.Group("/teacher", authed, requireRoles(user.RoleTeacher, user.RoleAdmin))
	tg.GET("/profile", api.profile)
	tg.POST("/feedback", api.submitFeedback)
	tg.GET("/students", api.students)
	tg.GET("/students/quiz-summaries", api.quizSummaries)
}

// Handlers

func (api *teacherApi) profile(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	usr, err := api.userSvc.GetByID(reqCtx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return teacher.ErrProfileNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	details, err := api.svc.Profile(reqCtx, id.UserID)
	if err != nil {
		return errors.Wrap(err, "finding teacher profile")
	}

	return ctx.JSON(http.StatusOK, teacherProfileResponse{User: newUserSummary(usr), Profile: details})
}

func (api *teacherApi) submitFeedback(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}

	var data teacher.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}

	receipt, err := api.svc.SubmitFeedback(ctx.Request().Context(), id.UserID, data)
	if err != nil {
		return errors.Wrap(err, "submitting feedback")
	}

	return ctx.JSON(http.StatusOK, feedbackResponse{
		Message:      "Feedback submitted successfully",
		Feedback:     receipt.Feedback,
		PointsEarned: receipt.PointsEarned,
		NewPoints:    receipt.NewPoints,
		NewLevel:     receipt.NewLevel,
	})
}

func (api *teacherApi) students(ctx echo.Context) error {
	sums, err := api.svc.Students(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, studentsResponse{Students: sums})
}

func (api *teacherApi) quizSummaries(ctx echo.Context) error {
	sums, err := api.studentSvc.QuizSummaries(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing quiz summaries")
	}
	return ctx.JSON(http.StatusOK, quizSummariesResponse{Summaries: sums})
}
