package ez

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"user-api-demo/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	ID    int64  `uri:"id" json:"-" binding:"required,min=1"`
	Q     string `form:"q" json:"-" binding:"omitempty,max=3"`
	Title string `json:"title"`
}

func engineWith[I any, O any](t *testing.T, l *zap.Logger, a Action[I, O]) *gin.Engine {
	t.Helper()
	r := gin.New()
	RegisterAction(New(r.Group("/"), l), a)
	return r
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction_BindsAllSources(t *testing.T) {
	r := engineWith(t, nil, Action[echoIn, echoIn]{
		Method: http.MethodPost,
		Path:   "/items/:id",
		Binder: BindURI | BindQuery | BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (echoIn, error) {
			return *in, nil
		},
	})

	w := call(r, http.MethodPost, "/items/5?q=ab", `{"title":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"title":"hello"}`, w.Body.String())

	w = call(r, http.MethodPost, "/items/5?q=abcd", `{"title":"hello"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"q"`)
}

func TestRegisterAction_StatusAndEmpty(t *testing.T) {
	r := engineWith(t, nil, Action[struct{}, string]{
		Method: "put",
		Path:   "/things",
		Status: http.StatusCreated,
		Empty:  true,
		Handler: func(c *gin.Context, _ *struct{}) (string, error) {
			return "ignored", nil
		},
	})

	w := call(r, http.MethodPut, "/things", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "not found reason",
			err:      NotFound("gone"),
			wantCode: http.StatusNotFound,
			wantBody: `{"reason":"gone"}`,
		},
		{
			name:     "validation details",
			err:      Validation(map[string]string{"name": "bad"}),
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"message":"Validation Failed","details":{"name":"bad"}}`,
		},
		{
			name:     "domain validation error",
			err:      fmt.Errorf("wrapped: %w", domain.NewValidationError("name", "reserved", "testX")),
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"message":"Validation Failed","details":{"name":{"message":"reserved","value":"testX"}}}`,
		},
		{
			name:     "internal hides cause",
			err:      Internal("db exploded", errors.New("password=hunter2")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal Server Error"}`,
		},
		{
			name:     "unknown error",
			err:      errors.New("kaboom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal Server Error"}`,
		},
		{
			name:     "plain status",
			err:      &AErr{Code: http.StatusConflict, Msg: "already there"},
			wantCode: http.StatusConflict,
			wantBody: `{"message":"already there"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			r := engineWith(t, zap.New(core), Action[struct{}, string]{
				Method: http.MethodGet,
				Path:   "/x",
				Handler: func(c *gin.Context, _ *struct{}) (string, error) {
					return "", tt.err
				},
			})
			w := call(r, http.MethodGet, "/x", "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			if tt.wantCode >= 500 {
				assert.Equal(t, 1, logs.Len())
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func TestAErr_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal("", cause)
	assert.Equal(t, "cause", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "action error", (&AErr{}).Error())
	assert.Equal(t, "msg", (&AErr{Msg: "msg", Err: cause}).Error())
}

func TestBindError_FieldNamesFromTags(t *testing.T) {
	r := engineWith(t, nil, Action[echoIn, string]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Binder: BindURI,
		Handler: func(c *gin.Context, in *echoIn) (string, error) {
			return "ok", nil
		},
	})

	w := call(r, http.MethodGet, "/items/0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"id"`)
	assert.NotContains(t, w.Body.String(), `"ID"`)
}
