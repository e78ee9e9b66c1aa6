package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	atRiskResponse struct {
		Students []admin.AtRiskStudent `json:"students"`
	}

	submissionsResponse struct {
		Submissions []admin.DonorSubmission `json:"submissions"`
	}
)

type adminApi struct {
	svc *admin.Service
}

func registerAdminAPI(g *echo.Group, authed echo.MiddlewareFunc, svc *admin.Service) {
	api := adminApi{svc: svc}

	ag := g.Group("/admin", authed, requireRoles(user.RoleAdmin))
	ag.GET("/stats", api.stats)
	ag.GET("/users/role-distribution", api.roleDistribution)
	ag.GET("/students/at-risk", api.atRiskStudents)
	ag.GET("/donors/submissions", api.donorSubmissions)
}

// Handlers

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) roleDistribution(ctx echo.Context) error {
	dist, err := api.svc.RoleDistribution(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing role distribution")
	}
	return ctx.JSON(http.StatusOK, dist)
}

func (api *adminApi) atRiskStudents(ctx echo.Context) error {
	students, err := api.svc.AtRiskStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing at-risk students")
	}
	return ctx.JSON(http.StatusOK, atRiskResponse{Students: students})
}

func (api *adminApi) donorSubmissions(ctx echo.Context) error {
	subs, err := api.svc.DonorSubmissions(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing donor submissions")
	}
	return ctx.JSON(http.StatusOK, submissionsResponse{Submissions: subs})
}
