package response

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_DefaultAndCustomMessage(t *testing.T) {
	assert.Equal(t, "Internal Server Error", Error(http.StatusInternalServerError, "").Message)
	assert.Equal(t, "server busy", Error(http.StatusServiceUnavailable, "server busy").Message)
	assert.Equal(t, "I'm a teapot", Error(http.StatusTeapot, "").Message)
}

func TestErrorBody_OmitsEmptyDetails(t *testing.T) {
	b, err := json.Marshal(Error(http.StatusNotFound, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"API endpoint not found"}`, string(b))

	b, err = json.Marshal(Validation(map[string]any{"name": map[string]string{"message": "required"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Validation Failed","details":{"name":{"message":"required"}}}`, string(b))
}
