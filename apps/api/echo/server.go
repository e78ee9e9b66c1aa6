package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
)

type (
	Options struct {
		Address        string
		CORSOrigin     string
		Debug          bool
		TestMode       bool
		DisableReqLogs bool

		Logger     core.Logger
		Translator ut.Translator
		Tokens     TokenVerifier

		UserSvc    *user.Service
		StudentSvc *student.Service
		TeacherSvc *teacher.Service
		AdminSvc   *admin.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{s.opts.CORSOrigin},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator)

	api := s.app.Group("/api")
	api.GET("/health", health)

	authed := authMiddleware(s.opts.Tokens)

	registerUserAPI(api, authed, s.opts.UserSvc, s.opts.AdminSvc, s.opts.Logger)
	registerStudentAPI(api, authed, s.opts.UserSvc, s.opts.StudentSvc)
	registerTeacherAPI(api, authed, s.opts.UserSvc, s.opts.TeacherSvc, s.opts.StudentSvc)
	registerAdminAPI(api, authed, s.opts.AdminSvc)
}

func (s *server) Start() error {
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, healthResponse{Status: "ok", Message: "INZOZI API is running"})
}
