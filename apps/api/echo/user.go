package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	sessionResponse struct {
		Message string    `json:"message"`
		User    user.User `json:"user"`
		Token   string    `json:"token"`
	}

	meResponse struct {
		User user.User `json:"user"`
	}

	// userSummary is the public part of a User embedded in profile responses.
	userSummary struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
)

func newUserSummary(usr user.User) userSummary {
	return userSummary{ID: usr.ID, Name: usr.Name, Email: usr.Email}
}

type userApi struct {
	svc      *user.Service
	adminSvc *admin.Service
	logger   core.Logger
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *user.Service, adminSvc *admin.Service, logger core.Logger) {
	api := userApi{svc: svc, adminSvc: adminSvc, logger: logger}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.GET("/me", api.me, authed)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	sess, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}

	// the user counts changed
	if api.adminSvc != nil {
		if err := api.adminSvc.InvalidateStats(ctx.Request().Context()); err != nil && api.logger != nil {
			api.logger.Warn(err.Error(), err)
		}
	}

	return ctx.JSON(http.StatusCreated, sessionResponse{
		Message: "User created successfully",
		User:    sess.User,
		Token:   sess.Token,
	})
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sess, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}

	return ctx.JSON(http.StatusOK, sessionResponse{
		Message: "Login successful",
		User:    sess.User,
		Token:   sess.Token,
	})
}

func (api *userApi) me(ctx echo.Context) error {
	id, err := mustIdentity(ctx)
	if err != nil {
		return err
	}

	usr, err := api.svc.GetByID(ctx.Request().Context(), id.UserID)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, meResponse{User: usr})
}
