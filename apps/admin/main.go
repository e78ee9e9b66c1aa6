package main

import (
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
	logsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/logger"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database"
	sqlxrepos "github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	zl := logsvc.NewZapLogger(conf.Env).Named("admin")
	defer func() { _ = zl.Sync() }()
	logger := logsvc.NewRollbarLogger(zl, conf)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), nil, nil, validate, logger),
		translator: translator,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error(fmt.Sprintf("error: %s", describe(err, cli.translator)), err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
