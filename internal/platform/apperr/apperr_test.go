package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: Invalid("bad page"), want: http.StatusBadRequest},
		{err: BadRequest("rule broken"), want: http.StatusBadRequest},
		{err: NotFound("gone"), want: http.StatusNotFound},
		{err: Conflict("duplicate"), want: http.StatusConflict},
		{err: Internal("boom"), want: http.StatusInternalServerError},
		{err: errors.New("untagged"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.err), tt.err.Error())
	}
}

func Test_CodeOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading booking: %w", NotFound("booking not found"))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func Test_BodyFromErr(t *testing.T) {
	body := BodyFromErr(Conflict("email already registered"))
	assert.Equal(t, CodeConflict, body.Error.Code)
	assert.Equal(t, "email already registered", body.Error.Message)

	body = BodyFromErr(errors.New("db gone"))
	assert.Equal(t, CodeInternal, body.Error.Code)
}
