package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	echoapi "github.com/zuritech/elimu/apps/api/echo"
	"github.com/zuritech/elimu/core/user"
	emailsvc "github.com/zuritech/elimu/services/email"
	testutil "github.com/zuritech/elimu/tests"
)

func Test_userApi_register(t *testing.T) {
	resetDB(t)

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":             reqMsg,
				"password":         "password must contain at least 8 characters",
				"password_confirm": reqMsg,
				"username":         "one of username or email is required",
				"email":            "one of username or email is required",
			}),
		},
		{
			name: "weak password", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{
				Name: "Hero", Username: "herohero", Email: "hero@test.cd",
				Password: "lol", PasswordConfirm: "lol",
			}),
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "registered", wantCode: http.StatusCreated,
			body: marchallObj(t, user.NewUser{
				Name: "Hero", Username: "herohero", Email: "hero@test.cd",
				Password: "LolC@t123", PasswordConfirm: "LolC@t123",
			}),
		},
		{
			name: "duplicate username", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{
				Name: "Copy Cat", Username: "herohero", Email: "copycat@test.cd",
				Password: "LolC@t123", PasswordConfirm: "LolC@t123",
			}),
			wantData: marchallObj(t, map[string]string{"username": "a user with this username already exists"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/register"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if usr.ID == "" {
					t.Error("failed! empty user ID")
				}
				if !usr.IsStudent() || usr.IsTeacher() || usr.IsAdmin() {
					t.Errorf("failed! roles = %v; want student only", usr.Roles)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_login(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "LolC@t123", []string{user.RoleStudent}, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.cd", "LolC@t123", []string{user.RoleStudent}, false)

	login := func(uname, pwd string) []byte {
		return marchallObj(t, echoapi.LoginRequest{Username: uname, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": "this field is required", "password": "this field is required"}),
		},
		{
			name: "unknown user", body: login("lol", "lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: login(student.Username, "lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: login(naughty.Username, "LolC@t123"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "login with username", body: login(student.Username, "LolC@t123"), wantCode: http.StatusOK},
		{name: "login with email", body: login(student.Email, "LolC@t123"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	resetDB(t)

	path := func(search string, isActive *bool, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if isActive != nil {
			v.Add("is_active", strconv.FormatBool(*isActive))
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	usr1 := testutil.CreateUser(t, usrRepo, "User", "awe", "awe@test.cd", "", nil, true)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "user3@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, false)

	adminToken := getToken(t, admin)
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantData: marchallList(t, usr1, student, admin, teacher, naughty),
		},
		{name: "search (unknown)", path: path("lol", nil), token: adminToken, wantData: empty},
		{name: "search=USE", path: path("USE", nil), token: adminToken, wantData: marchallList(t, usr1, student)},
		{name: "role (unknown)", path: path("", nil, "lol"), token: adminToken, wantData: empty},
		{name: "role=admin:", path: path("", nil, user.RoleAdmin), token: adminToken, wantData: marchallList(t, admin)},
		{
			name: "role=teacher:,student:", path: path("", nil, user.RoleTeacher, user.RoleStudent),
			token: adminToken, wantData: marchallList(t, teacher, student, naughty),
		},
		{
			name: "is_active=true", path: path("", bPtr(true)),
			token: adminToken, wantData: marchallList(t, usr1, student, admin, teacher),
		},
		{name: "is_active=false", path: path("", bPtr(false)), token: adminToken, wantData: marchallList(t, naughty)},
		{
			name: "combo", path: path("hero", bPtr(true), user.RoleStudent),
			token: adminToken, wantData: marchallList(t, student),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userRefreshToken(t *testing.T) {
	resetDB(t)

	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, false)
	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "user3@test.cd", "", []string{user.RoleStudent}, true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   student.ID,
			Audience:  "Elimu Portal",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		IsStudent:    student.IsStudent(),
		Roles:        student.Roles,
	}
	unrefreshableToken, err := echoapi.GenerateToken(unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Inactive user not allowed", token: getToken(t, naughty), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "Token refreshed", token: getToken(t, student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData echoapi.LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userResetPassword(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "user3@test.cd", "", []string{user.RoleStudent}, true)
	successData := marchallObj(t, echoapi.SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	linkRegex, err := regexp.Compile(`uid=.+&(amp;)?token=.+`)
	if err != nil {
		t.Fatalf("regexp.Compile(): %v", err)
	}

	type extraTest struct {
		emailSent bool
		to        mail.Address
	}
	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"email": "this field is required"})},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: "lol@test.com"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, echoapi.PasswordResetRequest{Email: student.Email}),
			wantData: successData, extra: extraTest{emailSent: true, to: mail.Address{Name: student.Name, Address: student.Email}},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if extra.emailSent {
					if len(emailsvc.SentMessages) != 1 {
						t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
					}
					msg := emailsvc.SentMessages[0]
					if msg.To[0] != extra.to {
						t.Errorf("failed! To = %v; want %v", msg.To[0], extra.to)
					}
					if !strings.Contains(msg.TextContent, extra.to.Name) {
						t.Errorf("failed! text content does not contain recipient's name %q", extra.to.Name)
					}
					if !linkRegex.MatchString(msg.TextContent) {
						t.Errorf("failed! text content does not match linkRegex %v", linkRegex)
					}
					if !linkRegex.MatchString(msg.HTMLContent) {
						t.Errorf("failed! HTML content does not match linkRegex %v", linkRegex)
					}
				} else {
					if len(emailsvc.SentMessages) > 0 {
						t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
					}
				}
			}
		})
	}
}

func Test_userApi_userConfirmPasswordReset(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "user3@test.cd", "lol", []string{user.RoleStudent}, true)

	// obtain a valid uid/token pair from the password reset email
	req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", marchallObj(t, echoapi.PasswordResetRequest{Email: student.Email}))
	app.ServeHTTP(rec, req)
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
	}
	linkRegex := regexp.MustCompile(`uid=([^&\s]+)&token=([^&\s]+)`)
	match := linkRegex.FindStringSubmatch(emailsvc.SentMessages[0].TextContent)
	if match == nil {
		t.Fatal("failed! reset link not found in email")
	}
	validUID, validToken := match[1], match[2]

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"token": reqMsg, "uid": reqMsg, "password": reqMsg, "password_confirm": reqMsg}),
		},
		{
			name: "invalid pwd: min len", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "invalid pwd: complexity", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "lol12345", PasswordConfirm: "lol12345"}),
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"}),
		},
		{
			name: "PasswordConfirm must = Password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "LolC@t123", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, map[string]string{"password_confirm": "password_confirm must be equal to Password"}),
		},
		{
			name: "invalid uid", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: validToken, UID: "%%%lol%%%", Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "invalid token", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "HE4TS-sigsig-sig", UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
		{
			name: "valid token", wantCode: http.StatusOK,
			body:     marchallObj(t, user.ResetUserPassword{Token: validToken, UID: validUID, Password: "LolC@t123", PasswordConfirm: "LolC@t123"}),
			wantData: marchallObj(t, echoapi.SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/users/password-reset-confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshedStudent, err := usrRepo.GetUserByID(context.Background(), student.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedStudent.PasswordHash, student.PasswordHash) {
					t.Fatalf("failed to update new password")
				}
			}
		})
	}
}

func Test_userApi_userDetail(t *testing.T) {
	resetDB(t)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "user3@test.cd", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other", "otherone", "other@test.cd", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)

	studentToken := getToken(t, student)
	adminToken := getToken(t, admin)
	notFound := marchallObj(t, httpErr{Error: "not found"})
	forbidden := marchallObj(t, httpErr{Error: "permission denied"})

	tests := []httpTest{
		{name: "retrieve: auth required", method: http.MethodGet, path: "/v1/users/" + student.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "retrieve self", method: http.MethodGet, path: "/v1/users/" + student.ID, token: studentToken, wantCode: http.StatusOK, wantData: marchallObj(t, student)},
		{name: "retrieve other (hidden)", method: http.MethodGet, path: "/v1/users/" + other.ID, token: studentToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "retrieve other (admin)", method: http.MethodGet, path: "/v1/users/" + other.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, other)},
		{name: "me", method: http.MethodGet, path: "/v1/users/me", token: studentToken, wantCode: http.StatusOK, wantData: marchallObj(t, student)},
		{
			name: "update: non-admin cannot set roles", method: http.MethodPut, path: "/v1/users/" + student.ID, token: studentToken,
			body: marchallObj(t, user.UpdateUser{Roles: user.AdminRoles}), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{name: "destroy: admin required", method: http.MethodDelete, path: "/v1/users/" + other.ID, token: studentToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "destroy: no self-delete", method: http.MethodDelete, path: "/v1/users/" + admin.ID, token: adminToken, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "destroy", method: http.MethodDelete, path: "/v1/users/" + other.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				if _, err := usrRepo.GetUserByID(context.Background(), other.ID); err != user.ErrNotFound {
					t.Errorf("GetUserByID() error = %v, want %v", err, user.ErrNotFound)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("update self", func(t *testing.T) {
		body := marchallObj(t, user.UpdateUser{Name: "Super Hero"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+student.ID, studentToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if usr.Name != "Super Hero" {
			t.Errorf("failed! name = %q; want %q", usr.Name, "Super Hero")
		}
	})
}
