package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorBuilders(t *testing.T) {
	assert.Equal(t, ErrorPayload{Code: 400, Message: "Bad Request", Details: "Document extension is not supported"},
		Build400Error("Document extension is not supported"))

	assert.Equal(t, ErrorPayload{Code: 403, Message: "Forbidden", Details: "User does not have required permissions to edit the document"},
		Build403Error("User does not have required permissions to edit the document"))

	assert.Equal(t, ErrorPayload{Code: 404, Message: "Not Found", Details: "Document not found"},
		Build404Error("Document not found"))

	assert.Equal(t, ErrorPayload{Code: 500, Message: "Server Error", Details: "Error while getting document"},
		Build500Error("Error while getting document"))
}
