package provider

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		resp     *Response
		err      error
		wantOK   bool
		wantText string
		wantCode string
	}{
		{"success", &Response{Content: "hello"}, nil, true, "hello", ""},
		{"deadline", nil, fmt.Errorf("post: %w", context.DeadlineExceeded), false, "", pilotErrors.CodeTimeout},
		{"coded", nil, pilotErrors.New(pilotErrors.CodeResponseShape, "no choices"), false, "", pilotErrors.CodeResponseShape},
		{"rate limited", nil, pilotErrors.New(pilotErrors.CodeRateLimited, "wait aborted"), false, "", pilotErrors.CodeRateLimited},
		{"plain", nil, fmt.Errorf("connection reset"), false, "", pilotErrors.CodeUpstream},
		{"nil response", nil, nil, false, "", pilotErrors.CodeResponseShape},
		{"blank text", &Response{Content: "  \n"}, nil, false, "", pilotErrors.CodeResponseShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Decode(tt.resp, tt.err)
			assert.Equal(t, tt.wantOK, r.OK())
			assert.Equal(t, tt.wantText, r.Text())
			assert.Equal(t, tt.wantCode, r.Code())
			if tt.wantOK {
				assert.NoError(t, r.Err())
			} else {
				assert.Error(t, r.Err())
			}
		})
	}
}

func TestFailure_NilErrGetsCodedError(t *testing.T) {
	r := Failure(pilotErrors.CodeUpstream, nil)
	assert.False(t, r.OK())
	assert.Equal(t, pilotErrors.CodeUpstream, pilotErrors.AsCode(r.Err()))
}
