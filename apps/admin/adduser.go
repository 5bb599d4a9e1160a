package main

import (
	"context"
	"time"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		if usr, err = cli.usrRepo.GetUserByEmail(ctx, email); err != nil {
			if err != user.ErrNotFound {
				return err
			}
			usr = user.User{
				Username:  uname,
				Email:     email,
				CreatedAt: time.Now().UTC(),
			}
		}
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.SetActive(true)
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	return nil
}
