// internal/app/system/registration/registration.go

// Package registration creates portal accounts: patient self-signup with
// email verification, and admin provisioning of employees.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/accounts"
	"github.com/dalemusser/neuronest/internal/app/system/auth"
	"github.com/dalemusser/neuronest/internal/app/system/authutil"
	"github.com/dalemusser/neuronest/internal/app/system/htmlsanitize"
	"github.com/dalemusser/neuronest/internal/app/system/inputval"
	"github.com/dalemusser/neuronest/internal/app/system/mailer"
	"github.com/dalemusser/neuronest/internal/app/system/normalize"
	"github.com/dalemusser/neuronest/internal/app/system/verifytoken"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotAdmin is returned when a non-admin tries to provision an employee.
var ErrNotAdmin = errors.New("only admins can create employees")

// ValidationError lists every user-facing problem with a submission.
type ValidationError struct {
	inputval.Result
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.All()
}

// Has reports whether field (the struct field name) failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Errors {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, inputval.FieldError{Field: field, Message: msg})
}

func fromResult(res *inputval.Result) *ValidationError {
	ve := &ValidationError{}
	if res.HasErrors() {
		ve.Errors = append(ve.Errors, res.Errors...)
	}
	return ve
}

// AccountStore is the subset of accounts.Store registration needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	LoginTaken(ctx context.Context, value string) (bool, error)
	HospitalIDTaken(ctx context.Context, hospitalID string) (bool, error)
	PersonalEmailTaken(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, u *models.User, p *models.Profile) error
	Activate(ctx context.Context, id uuid.UUID) error
}

// Config holds values used to build links and mail.
type Config struct {
	SiteName  string
	BaseURL   string // e.g. "https://portal.example.org"; blank yields relative links
	Passwords authutil.Policy
}

// Service runs the signup workflows.
type Service struct {
	accounts AccountStore
	tokens   *verifytoken.Generator
	mail     mailer.Sender
	cfg      Config
	log      *zap.Logger
}

// New returns a Service.
func New(store AccountStore, tokens *verifytoken.Generator, mail mailer.Sender, cfg Config, logger *zap.Logger) *Service {
	if cfg.SiteName == "" {
		cfg.SiteName = models.DefaultSiteName
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{accounts: store, tokens: tokens, mail: mail, cfg: cfg, log: logger}
}

// PasswordRules describes the configured password policy for form hints.
func (s *Service) PasswordRules() string {
	return s.cfg.Passwords.Rules()
}

// Result reports the created account. MailErr is set when the account was
// created but its email could not be delivered; it is never fatal.
type Result struct {
	Account *models.Account
	MailErr error
}

/*─────────────────────────────────────────────────────────────────────────────*
| Patient signup                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// PatientSignup is the self-registration form.
type PatientSignup struct {
	FullName          string `validate:"required,max=150" label:"Full name"`
	Email             string `validate:"required,max=254,email" label:"Email"`
	HospitalPatientID string `validate:"max=50" label:"Hospital patient ID"`
	Sex               string `validate:"required,sex" label:"Sex"`
	Age               *int   `validate:"required,gte=0,lte=130" label:"Age"`
	Password          string `validate:"required" label:"Password"`
	ConfirmPassword   string `validate:"required,eqfield=Password" label:"Confirm password"`
}

func (in *PatientSignup) normalize() {
	in.FullName = normalize.Name(htmlsanitize.StripTags(in.FullName))
	in.Email = normalize.Email(in.Email)
	in.HospitalPatientID = normalize.HospitalID(in.HospitalPatientID)
	in.Sex = strings.ToLower(strings.TrimSpace(in.Sex))
}

// SignupPatient creates an inactive patient and emails a verification link.
// The username is the email.
func (s *Service) SignupPatient(ctx context.Context, in PatientSignup) (*Result, error) {
	in.normalize()

	ve := fromResult(inputval.Validate(in))
	if !ve.Has("Password") {
		if err := s.cfg.Passwords.Validate(in.Password); err != nil {
			ve.add("Password", sentence(err.Error()))
		}
	}

	if !ve.Has("Email") {
		taken, err := s.accounts.LoginTaken(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			ve.add("Email", msgEmailTaken)
		}
	}
	if in.HospitalPatientID != "" && !ve.Has("HospitalPatientID") {
		taken, err := s.accounts.HospitalIDTaken(ctx, in.HospitalPatientID)
		if err != nil {
			return nil, fmt.Errorf("check hospital id: %w", err)
		}
		if taken {
			ve.add("HospitalPatientID", "This patient ID is already registered.")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sex, _ := models.ParseSex(in.Sex)
	age := *in.Age
	u := &models.User{
		Username:     in.Email,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     false,
	}
	p := &models.Profile{
		Role:     models.RolePatient,
		FullName: in.FullName,
		Sex:      &sex,
		Age:      &age,
	}
	if in.HospitalPatientID != "" {
		hid := in.HospitalPatientID
		p.HospitalPatientID = &hid
	}

	if err := s.accounts.CreateAccount(ctx, u, p); err != nil {
		if dup := duplicateError(err, "Email", msgEmailTaken); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}

	acct := &models.Account{User: *u, Profile: p}
	return &Result{Account: acct, MailErr: s.sendVerification(ctx, acct)}, nil
}

// VerifyURL is the absolute (or, without a base URL, relative) link that
// activates acct.
func (s *Service) VerifyURL(acct *models.Account) string {
	return s.link("/verify/" + verifytoken.EncodeUID(acct.User.ID) + "/" + s.tokens.Make(acct.User))
}

func (s *Service) sendVerification(ctx context.Context, acct *models.Account) error {
	email := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
		SiteName:  s.cfg.SiteName,
		FullName:  acct.DisplayName(),
		VerifyURL: s.VerifyURL(acct),
		ExpiresIn: humanDuration(s.tokens.Expiry()),
	})
	email.To = acct.User.Email

	if err := s.mail.Send(ctx, email); err != nil {
		s.log.Warn("verification email failed",
			zap.String("user_id", acct.User.ID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// ResendVerification mails a fresh link to an inactive patient. Unknown,
// active, or non-patient addresses succeed silently with a nil account.
func (s *Service) ResendVerification(ctx context.Context, email string) (*Result, error) {
	email = normalize.Email(email)
	if !inputval.ValidEmail(email) {
		return &Result{}, nil
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, accounts.ErrNotFound) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if acct.User.IsActive {
		return &Result{}, nil
	}
	if role, ok := acct.Role(); !ok || role != models.RolePatient {
		return &Result{}, nil
	}
	return &Result{Account: acct, MailErr: s.sendVerification(ctx, acct)}, nil
}

// VerifyEmail activates the account named by uidb64 when token matches its
// current state. Every failure is reported as verifytoken.ErrInvalid (or
// an error matching it) and the account may be nil.
func (s *Service) VerifyEmail(ctx context.Context, uidb64, token string) (*models.Account, error) {
	id, err := verifytoken.DecodeUID(uidb64)
	if err != nil {
		return nil, err
	}
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, accounts.ErrNotFound) {
			s.log.Error("verify lookup failed", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil, verifytoken.ErrInvalid
	}
	if err := s.tokens.Check(acct.User, token); err != nil {
		return acct, err
	}
	if err := s.accounts.Activate(ctx, id); err != nil {
		s.log.Error("activate failed", zap.String("user_id", id.String()), zap.Error(err))
		return acct, verifytoken.ErrInvalid
	}
	acct.User.IsActive = true
	return acct, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Employee provisioning                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// EmployeeSignup is the admin "create employee" form. AssignedEmail becomes
// both the username and the login email.
type EmployeeSignup struct {
	FullName        string `validate:"required,max=150" label:"Full name"`
	PersonalEmail   string `validate:"required,max=254,email" label:"Personal email"`
	AssignedEmail   string `validate:"required,max=254,email" label:"Assigned email"`
	Password        string `validate:"required" label:"Password"`
	ConfirmPassword string `validate:"required,eqfield=Password" label:"Confirm password"`
}

func (in *EmployeeSignup) normalize() {
	in.FullName = normalize.Name(htmlsanitize.StripTags(in.FullName))
	in.PersonalEmail = normalize.Email(in.PersonalEmail)
	in.AssignedEmail = normalize.Email(in.AssignedEmail)
}

// CreateEmployee provisions an active employee and mails the credentials to
// the personal email. A mail failure is returned in Result.MailErr and never
// undoes the account.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeSignup, actingAdmin *auth.SessionUser) (*Result, error) {
	if actingAdmin == nil || actingAdmin.Privileged || actingAdmin.Role != string(models.RoleAdmin) {
		return nil, ErrNotAdmin
	}
	in.normalize()

	ve := fromResult(inputval.Validate(in))
	if !ve.Has("Password") {
		if err := s.cfg.Passwords.Validate(in.Password); err != nil {
			ve.add("Password", sentence(err.Error()))
		}
	}
	if !ve.Has("AssignedEmail") {
		taken, err := s.accounts.LoginTaken(ctx, in.AssignedEmail)
		if err != nil {
			return nil, fmt.Errorf("check assigned email: %w", err)
		}
		if taken {
			ve.add("AssignedEmail", msgAssignedEmailTaken)
		}
	}
	if !ve.Has("PersonalEmail") {
		taken, err := s.accounts.PersonalEmailTaken(ctx, in.PersonalEmail)
		if err != nil {
			return nil, fmt.Errorf("check personal email: %w", err)
		}
		if taken {
			ve.add("PersonalEmail", "Another employee already uses this personal email.")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	personal := in.PersonalEmail
	u := &models.User{
		Username:     in.AssignedEmail,
		Email:        in.AssignedEmail,
		PasswordHash: hash,
		IsActive:     true,
	}
	p := &models.Profile{
		Role:          models.RoleEmployee,
		FullName:      in.FullName,
		PersonalEmail: &personal,
	}
	if err := s.accounts.CreateAccount(ctx, u, p); err != nil {
		if dup := duplicateError(err, "AssignedEmail", msgAssignedEmailTaken); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}

	acct := &models.Account{User: *u, Profile: p}

	email := mailer.BuildCredentialsEmail(mailer.CredentialsEmailData{
		SiteName: s.cfg.SiteName,
		FullName: in.FullName,
		LoginID:  in.AssignedEmail,
		Password: in.Password,
		LoginURL: s.link(auth.LoginPath(string(models.RoleEmployee))),
	})
	email.To = personal

	res := &Result{Account: acct}
	if err := s.mail.Send(ctx, email); err != nil {
		s.log.Warn("credentials email failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err))
		res.MailErr = err
	}
	return res, nil
}

func (s *Service) link(path string) string {
	if s.cfg.BaseURL == "" {
		return path
	}
	return s.cfg.BaseURL + path
}

const (
	msgEmailTaken         = "An account with this email already exists."
	msgAssignedEmailTaken = "Assigned email is already in use."
)

// duplicateError turns a store-level unique violation (a race with another
// signup) into the matching form error. loginField names the form field that
// carries the login email.
func duplicateError(err error, loginField, loginMsg string) *ValidationError {
	ve := &ValidationError{}
	switch {
	case errors.Is(err, accounts.ErrDuplicateUsername), errors.Is(err, accounts.ErrDuplicateEmail):
		ve.add(loginField, loginMsg)
	case errors.Is(err, accounts.ErrDuplicateHospitalID):
		ve.add("HospitalPatientID", "This patient ID is already registered.")
	case errors.Is(err, accounts.ErrDuplicatePersonalEmail):
		ve.add("PersonalEmail", "Another employee already uses this personal email.")
	default:
		return nil
	}
	return ve
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	case d == 24*time.Hour:
		return "1 day"
	case d >= 2*time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d == time.Hour:
		return "1 hour"
	}
	return d.String()
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
