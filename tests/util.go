package testutil

import (
	"context"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database"
)

// DatabaseURLEnv names the PostgreSQL database used by integration tests.
const DatabaseURLEnv = "INZOZI_TEST_DATABASE_URL"

const TestSecret = "test-secret"

// NewConfig returns a Config for tests.
func NewConfig() *core.Config {
	conf := &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "INZOZI",
		SecretKey:        TestSecret,
		DefaultFromEmail: mail.Address{Name: "INZOZI", Address: "no-reply@inzozi.rw"},
		FrontendBaseURL:  "http://localhost:5173",
	}
	conf.Server.CORSOrigin = "http://localhost:5173"
	conf.Server.JWTExpirationDelta = time.Hour
	return conf
}

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// OpenDB connects to the integration database, migrates it and empties it once the test ends.
// The test is skipped when DatabaseURLEnv is not set.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv(DatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}

	conf := NewConfig()
	conf.Database.Engine = "postgres"
	conf.Database.URL = url

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	if err = database.Migrate(context.Background(), db.DB); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}

	t.Cleanup(func() {
		_, err := db.Exec(`TRUNCATE users, donor_submissions CASCADE`)
		if err != nil {
			t.Errorf("truncating tables: %v", err)
		}
		_ = db.Close()
	})
	return db
}
