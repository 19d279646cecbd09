package request

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestLoginBody(t *testing.T) {
	body, err := json.Marshal(Login{Email: "email", Password: "password"}.Body())

	assert.NoError(t, err)
	assert.JSONEq(t, `{"email":"email","password":"password"}`, string(body))
}

func TestRegisterMasksPassword(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	register := Register{Name: "name", Email: "email", Password: "password"}

	logger.Info().Object("register", register).Msg("")
	masked, _ := json.Marshal(register)
	body, _ := json.Marshal(register.Body())

	assert.NotContains(t, buf.String(), "password\"")
	assert.JSONEq(t, `{"name":"name","email":"email","password":"***"}`, string(masked))
	assert.JSONEq(t, `{"name":"name","email":"email","password":"password"}`, string(body))
}
