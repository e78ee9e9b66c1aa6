// Package di wires the API dependencies into a dig.Container.
package di

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/iclaudiaadeline/Inzozi-Rwanda/apps/api/echo"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/auth"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
	emailsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/email"
	logsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/logger"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/storage/cache"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database"
	sqlxrepos "github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Translator ut.Translator
	Tokens     *auth.Issuer

	UserSvc    *user.Service
	StudentSvc *student.Service
	TeacherSvc *teacher.Service
	AdminSvc   *admin.Service
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewZapLogger(conf.Env).Named("api"), conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(logsvc.NewZapLogger(conf.Env).Named("db"), conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(context.Background(), db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newEmailService(conf *core.Config, renderer *core.EmailRenderer, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, renderer, logger)
	}
	return emailsvc.NewSendgridService(conf, renderer, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newIssuer(conf *core.Config) (*auth.Issuer, error) {
	return auth.NewIssuer(conf.SecretKey, conf.Server.JWTExpirationDelta)
}

// newStatsCache warns when Redis is unreachable; admin stats are then computed on every request.
func newStatsCache(conf *core.Config, logger core.Logger) admin.Cache {
	c := cache.NewHelper(cache.NewClient(conf), cache.StatsPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		logger.Warn(fmt.Sprintf("redis not reachable at %s: %v", conf.Redis.Address, err), err)
	}
	return c
}

func newAdminService(conf *core.Config, repo admin.Repository, c admin.Cache, logger core.Logger) *admin.Service {
	return admin.NewService(repo, c, conf.Redis.StatsTTL, logger)
}

func newServer(p ServerParams) echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Address:    p.Conf.Server.Address(),
		CORSOrigin: p.Conf.Server.CORSOrigin,
		Debug:      p.Conf.Debug,
		TestMode:   p.Conf.TestMode,
		Logger:     p.Logger,
		Translator: p.Translator,
		Tokens:     p.Tokens,
		UserSvc:    p.UserSvc,
		StudentSvc: p.StudentSvc,
		TeacherSvc: p.TeacherSvc,
		AdminSvc:   p.AdminSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(core.NewEmailRenderer))
	must(c.Provide(newEmailService))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newIssuer))
	must(c.Provide(func(iss *auth.Issuer) user.TokenIssuer { return iss }))
	must(c.Provide(newStatsCache))

	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewStudentRepository, dig.As(new(student.Repository))))
	must(c.Provide(sqlxrepos.NewTeacherRepository, dig.As(new(teacher.Repository))))
	must(c.Provide(sqlxrepos.NewAdminRepository, dig.As(new(admin.Repository))))

	must(c.Provide(user.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(teacher.NewService))
	must(c.Provide(newAdminService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
