package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// dbUser maps a "user" row.
type dbUser struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	DOB          string         `db:"dob"`
	ProfilePic   string         `db:"profile_pic"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (repo userRepository) marshal(usr user.User) dbUser {
	u := dbUser{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		DOB:          usr.DOB,
		ProfilePic:   usr.ProfilePic,
		IsActive:     usr.Active(),
		Roles:        usr.Roles,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
	if !usr.LastLogin.IsZero() {
		u.LastLogin = sql.NullTime{Time: usr.LastLogin.UTC(), Valid: true}
	}
	return u
}

func (repo userRepository) unmarshal(u dbUser) user.User {
	usr := user.User{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		DOB:          u.DOB,
		ProfilePic:   u.ProfilePic,
		Roles:        u.Roles,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	usr.SetActive(u.IsActive)
	if u.LastLogin.Valid {
		usr.LastLogin = u.LastLogin.Time
	}
	return usr
}

func (repo userRepository) unmarshalSlice(rows []dbUser) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, u := range rows {
		users = append(users, repo.unmarshal(u))
	}
	return users
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	query := `SELECT username, email FROM "user" WHERE (username = $1 OR email = $2)`
	args := []interface{}{username, email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		query += ` AND NOT (id = ANY($3))`
		args = append(args, pq.StringArray(ids))
	}

	var rows []dbUser
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, u := range rows {
		if u.Username == username {
			return user.ErrUsernameExists
		}
		if u.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	u := repo.marshal(usr)

	const query = `
INSERT INTO "user" (id, name, username, email, dob, profile_pic, is_active, roles, password_hash, created_at, updated_at, last_login)
VALUES (:id, :name, :username, :email, :dob, :profile_pic, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, query, u); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.unmarshal(u), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}

	var u dbUser
	if err := repo.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE id = $1`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return repo.unmarshal(u), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u dbUser
	if err := repo.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE email = $1`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return repo.unmarshal(u), nil
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, uname string) (user.User, error) {
	var u dbUser
	if err := repo.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE username = $1 OR email = $1`, uname); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user")
	}
	return repo.unmarshal(u), nil
}

func (repo userRepository) FilterUsers(ctx context.Context, filter *user.QueryFilter, orderings []core.DBOrdering) ([]user.User, error) {
	query := `SELECT * FROM "user"`
	var conds []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
		}
		// users with any role that starts with any of the provided roles
		if len(filter.Roles) > 0 {
			roleConds := make([]string, 0, len(filter.Roles))
			for _, role := range filter.Roles {
				p := arg(role + "%")
				roleConds = append(roleConds, fmt.Sprintf("EXISTS (SELECT 1 FROM UNNEST(roles) user_role WHERE user_role ILIKE %s)", p))
			}
			conds = append(conds, "("+strings.Join(roleConds, " OR ")+")")
		}
		if filter.IsActive != nil {
			conds = append(conds, fmt.Sprintf("is_active = %s", arg(*filter.IsActive)))
		}
		if !filter.CreatedFrom.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at >= %s", arg(filter.CreatedFrom.UTC())))
		}
		if !filter.CreatedTo.IsZero() {
			conds = append(conds, fmt.Sprintf("created_at <= %s", arg(filter.CreatedTo.UTC())))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(orderings) > 0 {
		orderList := make([]string, 0, len(orderings))
		for _, ord := range orderings {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	}

	var rows []dbUser
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.unmarshalSlice(rows), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Roles != nil {
		orig.Roles = usr.Roles
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		orig.SetActive(*isActive)
	}
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.DOB != "" {
		orig.DOB = usr.DOB
	}
	if usr.ProfilePic != "" {
		orig.ProfilePic = usr.ProfilePic
	}
	orig.UpdatedAt = usr.UpdatedAt

	u := repo.marshal(orig)
	const query = `
UPDATE "user"
SET name = :name, username = :username, email = :email, dob = :dob, profile_pic = :profile_pic,
    is_active = :is_active, roles = :roles, password_hash = :password_hash, updated_at = :updated_at
WHERE id = :id`
	if _, err = repo.db.NamedExecContext(ctx, query, u); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return repo.unmarshal(u), nil
}

func (repo userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		return repo.CreateUser(ctx, usr)
	}
	return repo.UpdateUser(ctx, usr, usr.IsActive)
}

func (repo userRepository) SetUserLastLogin(ctx context.Context, id string, t time.Time) (user.User, error) {
	if _, err := repo.db.ExecContext(ctx, `UPDATE "user" SET last_login = $1 WHERE id = $2`, t.UTC(), id); err != nil {
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	return repo.GetUserByID(ctx, id)
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
