package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ===========================================
// Response Serialization Tests
// ===========================================

func TestSuccessResponse_MessageSerialization(t *testing.T) {
	msg := "Product deleted successfully"
	body, err := json.Marshal(SuccessResponse{Success: true, Message: &msg})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"Product deleted successfully"}`, string(body))
}

func TestSuccessResponse_MessageOmittedWhenNil(t *testing.T) {
	body, err := json.Marshal(SuccessResponse{Success: true})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(body))
}
