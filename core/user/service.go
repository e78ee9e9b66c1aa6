package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// compared against when the email is unknown so both login failures cost a bcrypt round
	dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		// CreateUser inserts the user and its role profile in one transaction.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdatePassword(ctx context.Context, id string, hash []byte) error
	}

	TokenIssuer interface {
		Issue(userID, role string) (string, error)
	}

	Service struct {
		repo     Repository
		tokens   TokenIssuer
		mailSvc  core.EmailService
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	tokens TokenIssuer,
	mailSvc core.EmailService,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		mailSvc:  mailSvc,
		validate: validate,
		logger:   logger,
	}
}

func (svc *Service) checkUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		return emailExistsOr(err)
	}
	return nil
}

// emailExistsOr turns ErrEmailExists into a field error and passes any other error through.
func emailExistsOr(err error) error {
	if errors.Is(err, ErrEmailExists) {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	}
	return err
}

// Create validates nu and stores the new User along with its role profile.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, emailExistsOr(err)
	}
	return usr, nil
}

// Signup creates the User and logs them in.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (Session, error) {
	usr, err := svc.Create(ctx, nu)
	if err != nil {
		return Session{}, err
	}

	token, err := svc.tokens.Issue(usr.ID, usr.Role)
	if err != nil {
		return Session{}, errors.Wrap(err, "issuing token")
	}

	svc.sendWelcomeMail(usr)
	return Session{User: usr, Token: token}, nil
}

// Login returns ErrInvalidCredentials whether the email is unknown or the password is wrong.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return Session{}, err
	}

	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by email")
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := svc.tokens.Issue(usr.ID, usr.Role)
	if err != nil {
		return Session{}, errors.Wrap(err, "issuing token")
	}
	return Session{User: usr, Token: token}, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// ResetPassword sets a new password for the User with the given email.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	if err := svc.validate.Var(pwd, "required,min=6"); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: "password must be at least 6 characters"})
	}

	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdatePassword(ctx, usr.ID, usr.PasswordHash)
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: usr,
	})
	if svc.logger != nil {
		svc.logger.Debug(fmt.Sprintf("welcome mail queued for %s", usr.ID))
	}
}
