package bruteforce

import (
	"strings"

	"github.com/waftester/wpvane/pkg/httpclient"
)

// Outcome is the classification of one login attempt.
type Outcome string

const (
	OutcomeWrong       Outcome = "wrong"
	OutcomeSuccess     Outcome = "success"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeNoResponse  Outcome = "no_response"
	OutcomeServerError Outcome = "server_error"
	OutcomeUnknown     Outcome = "unknown"
)

// loginErrorMarker is the id of the error box wp-login.php renders on a
// failed login.
const loginErrorMarker = "login_error"

// Classify maps a completed login request to an Outcome. The checks run in
// a fixed order: an error marker in the body wins over the status code.
func Classify(c httpclient.Completion) Outcome {
	code := c.StatusCode()
	switch {
	case strings.Contains(strings.ToLower(c.Body()), loginErrorMarker):
		return OutcomeWrong
	case code == 302:
		return OutcomeSuccess
	case c.TimedOut():
		return OutcomeTimeout
	case c.NoResponse():
		return OutcomeNoResponse
	case code >= 500 && code < 600:
		return OutcomeServerError
	default:
		return OutcomeUnknown
	}
}
