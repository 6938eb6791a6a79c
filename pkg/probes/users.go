package probes

import (
	"context"
	"net/url"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/regexcache"
	"github.com/waftester/wpvane/pkg/target"
)

// User is an account found through the author archives.
type User struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
}

var numeric = regexp.MustCompile(`^\d+$`)

// EnumerateUsers walks ?author=N for N in [from, to]. WordPress redirects
// each existing id to /author/<login>/; when permalinks are off the login
// shows up in the body class instead. Request failures skip that id.
func EnumerateUsers(ctx context.Context, f Fetcher, t *target.Target, from, to int, log logrus.FieldLogger) []User {
	log = logger.OrDiscard(log)
	var users []User
	seen := make(map[string]bool)
	for id := from; id <= to; id++ {
		if ctx.Err() != nil {
			break
		}
		resp, err := f.Get(ctx, t.AuthorURL(id))
		if err != nil {
			log.WithError(err).WithField("author", id).Debug("author request failed")
			continue
		}

		login := ""
		if loc := resp.Location(); loc != "" {
			if u, err := url.Parse(loc); err == nil {
				login = regexcache.FirstSubmatch(`/author/([^/]+)/?$`, u.Path)
			}
		}
		if login == "" && resp.StatusCode == 200 {
			login = loginFromBody(resp.BodyString())
		}
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		users = append(users, User{ID: id, Login: login})
	}
	return users
}

func loginFromBody(body string) string {
	re := regexcache.MustGet(`\bauthor-([\w.@-]+)`)
	for _, m := range re.FindAllStringSubmatch(body, 10) {
		if !numeric.MatchString(m[1]) {
			return m[1]
		}
	}
	return ""
}
