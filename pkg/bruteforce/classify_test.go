package bruteforce

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waftester/wpvane/pkg/httpclient"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	resp := func(code int, body string) *httpclient.Response {
		return &httpclient.Response{StatusCode: code, Body: []byte(body)}
	}

	tests := []struct {
		name string
		c    httpclient.Completion
		want Outcome
	}{
		{"error marker", httpclient.Completion{Response: resp(200, `<div id="login_error">`)}, OutcomeWrong},
		{"error marker any case", httpclient.Completion{Response: resp(200, `LOGIN_ERROR`)}, OutcomeWrong},
		{"marker wins over redirect", httpclient.Completion{Response: resp(302, `login_error`)}, OutcomeWrong},
		{"redirect", httpclient.Completion{Response: resp(302, "")}, OutcomeSuccess},
		{"other redirect", httpclient.Completion{Response: resp(301, "")}, OutcomeUnknown},
		{"timeout", httpclient.Completion{Response: &httpclient.Response{TimedOut: true}, Err: httpclient.ErrTimeout}, OutcomeTimeout},
		{"wrapped timeout", httpclient.Completion{Err: fmt.Errorf("%w: deadline", httpclient.ErrTimeout)}, OutcomeTimeout},
		{"no response", httpclient.Completion{Err: httpclient.ErrNoResponse}, OutcomeNoResponse},
		{"nil response", httpclient.Completion{}, OutcomeNoResponse},
		{"empty response", httpclient.Completion{Response: &httpclient.Response{}, Err: httpclient.ErrNoResponse}, OutcomeNoResponse},
		{"timeout without status beats no response", httpclient.Completion{Response: &httpclient.Response{TimedOut: true}}, OutcomeTimeout},
		{"500", httpclient.Completion{Response: resp(500, "")}, OutcomeServerError},
		{"503", httpclient.Completion{Response: resp(503, "")}, OutcomeServerError},
		{"200 without marker", httpclient.Completion{Response: resp(200, "welcome")}, OutcomeUnknown},
		{"403", httpclient.Completion{Response: resp(403, "forbidden")}, OutcomeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.c))
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, percent(0, 10))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 100, percent(4, 4))
	assert.Equal(t, 100, percent(0, 0))
}
