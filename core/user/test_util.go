package user

import (
	"github.com/zuritech/elimu/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a user service whose mails are sent synchronously.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config) ServiceInterface {
	initTokenGen(conf)
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
			conf:    conf,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(email string) error {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
