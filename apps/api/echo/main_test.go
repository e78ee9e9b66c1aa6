package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	. "github.com/iclaudiaadeline/Inzozi-Rwanda/apps/api/echo"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/admin"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/auth"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/student"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/teacher"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/core/user"
	emailsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/email"
	logsvc "github.com/iclaudiaadeline/Inzozi-Rwanda/services/logger"
	"github.com/iclaudiaadeline/Inzozi-Rwanda/storage/cache"
	inmemdb "github.com/iclaudiaadeline/Inzozi-Rwanda/storage/database/inmem"
	testutil "github.com/iclaudiaadeline/Inzozi-Rwanda/tests"
)

var (
	errMissingToken = httpErr{Error: "authentication required"}
	errInvalidToken = httpErr{Error: "invalid or expired token"}
	errForbidden    = httpErr{Error: "access denied"}
)

type sentMessages interface {
	SentMessages() []core.EmailMessage
}

type testApp struct {
	Server
	db      *inmemdb.DB
	usrRepo user.Repository
	tokens  *auth.Issuer
	mailSvc sentMessages
}

func setup(t *testing.T) *testApp {
	t.Helper()
	return setupWithStatsCache(t, cache.NewHelper(nil, cache.StatsPrefix), 0)
}

func setupWithStatsCache(t *testing.T, statsCache admin.Cache, statsTTL time.Duration) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	validate, translator := testutil.NewValidator()
	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)

	tokens, err := auth.NewIssuer(conf.SecretKey, conf.Server.JWTExpirationDelta)
	require.NoError(t, err)
	renderer, err := core.NewEmailRenderer(conf)
	require.NoError(t, err)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, renderer, logger)

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)

	// set up services
	usrSvc := user.NewService(usrRepo, tokens, mailSvc, validate, logger)
	studentSvc := student.NewService(inmemdb.NewStudentRepository(db), validate)
	teacherSvc := teacher.NewService(inmemdb.NewTeacherRepository(db), validate)
	adminSvc := admin.NewService(inmemdb.NewAdminRepository(db), statsCache, statsTTL, logger)

	// set up server
	app := NewServer(&Options{
		CORSOrigin:     conf.Server.CORSOrigin,
		TestMode:       true,
		DisableReqLogs: true,
		Logger:         logger,
		Translator:     translator,
		Tokens:         tokens,
		UserSvc:        usrSvc,
		StudentSvc:     studentSvc,
		TeacherSvc:     teacherSvc,
		AdminSvc:       adminSvc,
	})

	return &testApp{Server: app, db: db, usrRepo: usrRepo, tokens: tokens, mailSvc: mailSvc}
}

func (app *testApp) createUser(t *testing.T, name, email, role string) user.User {
	return testutil.CreateUser(t, app.usrRepo, name, email, "secret123", role)
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.tokens.Issue(usr.ID, usr.Role)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type validationErr struct {
	Error   string            `json:"error"`
	Details []core.FieldError `json:"details"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.do(method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
