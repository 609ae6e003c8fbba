package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/neuronest/internal/app/store/accounts"
	"github.com/dalemusser/neuronest/internal/domain/models"
	"github.com/google/uuid"
)

// FakeAccounts is an in-memory stand-in for accounts.Store. It enforces the
// same uniqueness rules as the PostgreSQL indexes.
type FakeAccounts struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Account

	// Err, when set, is returned by every method.
	Err error
	// CreateErr, when set, is returned by CreateAccount only.
	CreateErr error
}

// NewFakeAccounts returns a FakeAccounts seeded with accts.
func NewFakeAccounts(accts ...*models.Account) *FakeAccounts {
	f := &FakeAccounts{byID: make(map[uuid.UUID]*models.Account)}
	for _, a := range accts {
		f.byID[a.User.ID] = cloneAccount(a)
	}
	return f
}

func cloneAccount(a *models.Account) *models.Account {
	c := *a
	if a.Profile != nil {
		p := *a.Profile
		c.Profile = &p
	}
	return &c
}

func (f *FakeAccounts) find(match func(*models.Account) bool) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for _, a := range f.byID {
		if match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, accounts.ErrNotFound
}

// GetByID implements the accounts.Store lookup.
func (f *FakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.User.ID == id })
}

// GetByUsername matches the username exactly.
func (f *FakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	return f.find(func(a *models.Account) bool { return a.User.Username == username })
}

// GetByEmail matches the email case-insensitively.
func (f *FakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	return f.find(func(a *models.Account) bool { return strings.EqualFold(a.User.Email, email) })
}

func (f *FakeAccounts) exists(match func(*models.Account) bool) (bool, error) {
	_, err := f.find(match)
	if errors.Is(err, accounts.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// LoginTaken reports whether value is used as any username or email.
func (f *FakeAccounts) LoginTaken(_ context.Context, value string) (bool, error) {
	value = strings.TrimSpace(value)
	return f.exists(func(a *models.Account) bool {
		return strings.EqualFold(a.User.Email, value) || strings.EqualFold(a.User.Username, value)
	})
}

// HospitalIDTaken reports whether a patient uses hospitalID.
func (f *FakeAccounts) HospitalIDTaken(_ context.Context, hospitalID string) (bool, error) {
	hospitalID = strings.TrimSpace(hospitalID)
	return f.exists(func(a *models.Account) bool {
		return a.Profile != nil && a.Profile.Role == models.RolePatient &&
			a.Profile.HospitalPatientID != nil && *a.Profile.HospitalPatientID == hospitalID
	})
}

// PersonalEmailTaken reports whether an employee uses email as personal email.
func (f *FakeAccounts) PersonalEmailTaken(_ context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	return f.exists(func(a *models.Account) bool {
		return a.Profile != nil && a.Profile.Role == models.RoleEmployee &&
			a.Profile.PersonalEmail != nil && strings.EqualFold(*a.Profile.PersonalEmail, email)
	})
}

// CreateAccount stores the user and profile, filling ids and timestamps.
func (f *FakeAccounts) CreateAccount(_ context.Context, u *models.User, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if f.CreateErr != nil {
		return f.CreateErr
	}

	for _, a := range f.byID {
		switch {
		case strings.EqualFold(a.User.Username, u.Username):
			return accounts.ErrDuplicateUsername
		case strings.EqualFold(a.User.Email, u.Email):
			return accounts.ErrDuplicateEmail
		case a.Profile != nil && p.Role == models.RolePatient && a.Profile.Role == models.RolePatient &&
			p.HospitalPatientID != nil && a.Profile.HospitalPatientID != nil &&
			*a.Profile.HospitalPatientID == *p.HospitalPatientID:
			return accounts.ErrDuplicateHospitalID
		case a.Profile != nil && p.Role == models.RoleEmployee && a.Profile.Role == models.RoleEmployee &&
			p.PersonalEmail != nil && a.Profile.PersonalEmail != nil &&
			strings.EqualFold(*a.Profile.PersonalEmail, *p.PersonalEmail):
			return accounts.ErrDuplicatePersonalEmail
		}
	}

	now := time.Now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = now
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UserID = u.ID

	f.byID[u.ID] = cloneAccount(&models.Account{User: *u, Profile: p})
	return nil
}

func (f *FakeAccounts) update(id uuid.UUID, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	a, ok := f.byID[id]
	if !ok {
		return accounts.ErrNotFound
	}
	fn(&a.User)
	return nil
}

// Activate marks the user active.
func (f *FakeAccounts) Activate(_ context.Context, id uuid.UUID) error {
	return f.update(id, func(u *models.User) { u.IsActive = true })
}

// TouchLastLogin records a login time.
func (f *FakeAccounts) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	return f.update(id, func(u *models.User) {
		t := at.UTC()
		u.LastLogin = &t
	})
}

// ListByRole returns accounts with role, newest profile first.
func (f *FakeAccounts) ListByRole(_ context.Context, role models.Role, limit int) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	var out []models.Account
	for _, a := range f.byID {
		if a.Profile != nil && a.Profile.Role == role {
			out = append(out, *cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Profile.CreatedAt.After(out[j].Profile.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountByRole returns the number of profiles per role.
func (f *FakeAccounts) CountByRole(_ context.Context) (map[models.Role]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make(map[models.Role]int64, len(models.AllRoles))
	for _, r := range models.AllRoles {
		out[r] = 0
	}
	for _, a := range f.byID {
		if a.Profile != nil {
			out[a.Profile.Role]++
		}
	}
	return out, nil
}

// Get returns a copy of the stored account, or nil.
func (f *FakeAccounts) Get(id uuid.UUID) *models.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return cloneAccount(a)
	}
	return nil
}

// Len returns the number of stored accounts.
func (f *FakeAccounts) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}
