package controllers

import (
	"testing"

	"kisancart/utils"

	"github.com/stretchr/testify/assert"
)

func validRegister() registerRequest {
	return registerRequest{
		Name:            "Asha",
		Email:           "asha@example.com",
		Phone:           "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            "farmer",
	}
}

func TestRegisterRequestValidation(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(validRegister()))

	req := validRegister()
	req.Name = ""
	assert.Error(t, utils.ValidateStruct(req))

	req = validRegister()
	req.Email = "not-an-email"
	assert.Error(t, utils.ValidateStruct(req))

	req = validRegister()
	req.ConfirmPassword = "different"
	assert.Error(t, utils.ValidateStruct(req), "mismatched passwords must be rejected")

	req = validRegister()
	req.Password = "short"
	req.ConfirmPassword = "short"
	assert.Error(t, utils.ValidateStruct(req))

	req = validRegister()
	req.Role = "admin"
	assert.Error(t, utils.ValidateStruct(req), "admin cannot be self-assigned")

	req = validRegister()
	req.Role = ""
	assert.NoError(t, utils.ValidateStruct(req), "role defaults to buyer in the handler")
}

func TestLoginRequestValidation(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(loginRequest{Email: "a@b.com", Password: "x"}))
	assert.Error(t, utils.ValidateStruct(loginRequest{Email: "a@b.com"}))
	assert.Error(t, utils.ValidateStruct(loginRequest{Password: "x"}))
	assert.Error(t, utils.ValidateStruct(loginRequest{Email: "nope", Password: "x"}))
}

func TestSendMessageRequestValidation(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(sendMessageRequest{ReceiverID: "abc", Text: "hi"}))
	assert.Error(t, utils.ValidateStruct(sendMessageRequest{Text: "hi"}))
	assert.Error(t, utils.ValidateStruct(sendMessageRequest{ReceiverID: "abc"}))
}

func TestUpdateStatusRequestValidation(t *testing.T) {
	for _, status := range []string{"accepted", "shipped", "delivered", "cancelled"} {
		assert.NoError(t, utils.ValidateStruct(updateStatusRequest{Status: status}))
	}
	// placed is the initial state, never a target of a farmer update.
	assert.Error(t, utils.ValidateStruct(updateStatusRequest{Status: "placed"}))
	assert.Error(t, utils.ValidateStruct(updateStatusRequest{Status: "refunded"}))
	assert.Error(t, utils.ValidateStruct(updateStatusRequest{}))
}
