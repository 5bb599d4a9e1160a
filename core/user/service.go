package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

const defaultProfilePic = "default.png"

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByUsernameOrEmail(ctx context.Context, uname string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name, User.Username or User.Email.
		FilterUsers(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
		SetUserLastLogin(ctx context.Context, id string, t time.Time) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		Register(nu NewUser) (User, error)
		Query(filter *QueryFilter, orderings []core.DBOrdering) ([]User, error)
		GetByID(id string) (User, error)
		GetByEmail(email string) (User, error)
		GetByUsernameOrEmail(uname string) (User, error)
		Update(id string, uu UpdateUser) (User, error)
		SetLastLogin(usr User) (User, error)
		Delete(ids ...string) error
		RequestPasswordReset(email string) error
		ResetPassword(rp ResetUserPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *service {
	initTokenGen(conf)
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclUsers...); err != nil {
		var field string
		switch errors.Cause(err) {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:       nu.Name,
		Username:   nu.Username,
		Email:      nu.Email,
		DOB:        nu.DOB,
		ProfilePic: defaultProfilePic,
		Roles:      nu.Roles,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	usr.SetActive(true)
	if usr.Username == "" {
		usr.Username = generateUsername(usr.Name)
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(context.Background(), usr)
}

// Register is the public self sign-up; new accounts are always students.
func (svc *service) Register(nu NewUser) (User, error) {
	nu.Roles = []string{RoleStudent}
	usr, err := svc.Create(nu)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) Query(filter *QueryFilter, orderings []core.DBOrdering) ([]User, error) {
	return svc.repo.FilterUsers(context.Background(), filter, orderings)
}

func (svc *service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(context.Background(), id)
}

func (svc *service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(context.Background(), core.CleanString(email, true /* lower */))
}

func (svc *service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(context.Background(), core.CleanString(uname, true /* lower */))
}

func (svc *service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:         id,
		Name:       uu.Name,
		Username:   uu.Username,
		Email:      uu.Email,
		DOB:        uu.DOB,
		ProfilePic: uu.ProfilePic,
		Roles:      uu.Roles,
		UpdatedAt:  time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateUser(context.Background(), usr, uu.IsActive)
}

func (svc *service) SetLastLogin(usr User) (User, error) {
	return svc.repo.SetUserLastLogin(context.Background(), usr.ID, time.Now().UTC())
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(context.Background(), ids...)
}

func (svc *service) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(rp ResetUserPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding user by ID")
	}
	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(context.Background(), usr, nil); err != nil {
		return errors.Wrap(err, "updating user")
	}
	svc.sendPasswordResetDoneMail(usr)
	return nil
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome aboard",
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{usr.Name},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			Name  string
			UID   string
			Token string
		}{usr.Name, EncodeUID(usr), makeToken(usr)},
	})
}

func (svc *service) sendPasswordResetDoneMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Password Reset Complete",
		TemplateName: "password-reset-done",
		TemplateData: struct{ Name string }{usr.Name},
	})
}

// generateUsername derives a unique-ish username from a display name.
func generateUsername(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	return fmt.Sprintf("%s_%s", base, uuid.NewString()[:8])
}
