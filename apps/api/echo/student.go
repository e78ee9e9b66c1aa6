package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	studentProfileResponse struct {
		User    userSummary     `json:"user"`
		Profile student.Profile `json:"profile"`
	}

	quizResponse struct {
		Message    string             `json:"message"`
		QuizResult student.QuizResult `json:"quizResult"`
	}
)

type studentApi struct {
	userSvc *user.Service
	svc     *student.Service
}

func registerStudentAPI(g *echo.Group, authed echo.MiddlewareFunc, userSvc *user.Service, svc *student.Service) {
	api := studentApi{userSvc: userSvc, svc: svc}

	sg := g.Group("/student", authed, requireRoles(user.RoleStudent, user.RoleAdmin))
	sg.GET("/profile", api.profile)
	sg.POST("/quiz", api.submitQuiz)
	sg.GET("/quiz/results", api.quizResults)
}

// Handlers

func (api *studentApi) profile(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	usr, err := api.userSvc.GetByID(reqCtx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return student.ErrProfileNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	prof, err := api.svc.Profile(reqCtx, id.UserID)
	if err != nil {
		return errors.Wrap(err, "finding student profile")
	}

	return ctx.JSON(http.StatusOK, studentProfileResponse{User: newUserSummary(usr), Profile: prof})
}

func (api *studentApi) submitQuiz(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}

	var data student.QuizSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}

	res, err := api.svc.SubmitQuiz(ctx.Request().Context(), id.UserID, data)
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, quizResponse{Message: "Quiz results saved successfully", QuizResult: res})
}

func (api *studentApi) quizResults(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}

	results, err := api.svc.QuizResults(ctx.Request().Context(), id.UserID)
	if err != nil {
		return errors.Wrap(err, "getting quiz results")
	}
	return ctx.JSON(http.StatusOK, results)
}
