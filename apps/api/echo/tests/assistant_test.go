package tests

import (
	"net/http"
	"testing"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/assistant"
	"github.com/zuritech/elimu/core/user"
	testutil "github.com/zuritech/elimu/tests"
)

func Test_assistantApi_ask(t *testing.T) {
	resetDB(t)
	defer resetGen()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero", "hero@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	body := marchallObj(t, assistant.Prompt{Message: "What is photosynthesis?"})
	aiFailed := marchallObj(t, httpErr{Error: "AI service failed to produce a valid response"})

	type genSetup struct {
		response string
		err      error
	}
	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "required fields", token: studentToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"message": "this field is required"}),
		},
		{name: "model blocked the prompt", token: studentToken, body: body, wantCode: http.StatusBadGateway, extra: genSetup{err: core.ErrAIBlocked}, wantData: aiFailed},
		{name: "model returned nothing", token: studentToken, body: body, wantCode: http.StatusBadGateway, extra: genSetup{err: core.ErrAIEmptyResponse}, wantData: aiFailed},
		{
			name: "answered", token: studentToken, body: body, wantCode: http.StatusOK,
			extra:    genSetup{response: "  Photosynthesis converts light into chemical energy.\n"},
			wantData: marchallObj(t, assistant.Reply{Reply: "Photosynthesis converts light into chemical energy."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/assistant/ask"

		t.Run(tt.name, func(t *testing.T) {
			resetGen()
			if setup, ok := tt.extra.(genSetup); ok {
				gen.Response = setup.response
				gen.Err = setup.err
			}

			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
