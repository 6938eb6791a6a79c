package config

import (
	"strconv"
	"strings"

	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/regexcache"
)

// ListMode selects which component names to probe.
type ListMode int

const (
	ListNone ListMode = iota
	// ListPopular uses the corpus enumeration list.
	ListPopular
	// ListVulnerable uses the names that have vulnerability records.
	ListVulnerable
	// ListAll uses both.
	ListAll
)

func (m ListMode) String() string {
	switch m {
	case ListPopular:
		return "popular"
	case ListVulnerable:
		return "vulnerable"
	case ListAll:
		return "all"
	default:
		return "none"
	}
}

// Enumeration is the parsed --enumerate value.
type Enumeration struct {
	Users     bool
	UsersFrom int
	UsersTo   int
	Plugins   ListMode
	Themes    ListMode
	Timthumbs bool
}

// Empty reports whether nothing is enumerated.
func (e Enumeration) Empty() bool {
	return !e.Users && e.Plugins == ListNone && e.Themes == ListNone && !e.Timthumbs
}

var pluginTokens = map[string]ListMode{"p": ListPopular, "vp": ListVulnerable, "ap": ListAll}

var themeTokens = map[string]ListMode{"t": ListPopular, "vt": ListVulnerable, "at": ListAll}

// DefaultEnumerate is what a bare -e/--enumerate expands to.
const DefaultEnumerate = "vt,tt,u,vp"

// ParseEnumerate parses values such as "u[1-20],vp,tt". At most one plugin
// mode and one theme mode may be given.
func ParseEnumerate(s string) (Enumeration, error) {
	var e Enumeration
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}

		if mode, ok := pluginTokens[tok]; ok {
			if e.Plugins != ListNone && e.Plugins != mode {
				return Enumeration{}, invalid("please choose only one plugin enumeration option")
			}
			e.Plugins = mode
			continue
		}
		if mode, ok := themeTokens[tok]; ok {
			if e.Themes != ListNone && e.Themes != mode {
				return Enumeration{}, invalid("please choose only one theme enumeration option")
			}
			e.Themes = mode
			continue
		}
		if tok == "tt" {
			e.Timthumbs = true
			continue
		}

		m := regexcache.MustGet(`^u(?:\[(\d+)-(\d+)\])?$`).FindStringSubmatch(tok)
		if m == nil {
			return Enumeration{}, invalid("unknown enumeration option %q", tok)
		}
		from, to := defaults.UserRangeStart, defaults.UserRangeEnd
		if m[1] != "" {
			var err1, err2 error
			from, err1 = strconv.Atoi(m[1])
			to, err2 = strconv.Atoi(m[2])
			if err1 != nil || err2 != nil {
				return Enumeration{}, invalid("invalid user range %q", tok)
			}
		}
		if from < 1 || from > to {
			return Enumeration{}, invalid("invalid user range %q", tok)
		}
		if to > defaults.UserRangeMax {
			return Enumeration{}, invalid("user range %q exceeds the maximum author ID %d", tok, defaults.UserRangeMax)
		}
		e.Users, e.UsersFrom, e.UsersTo = true, from, to
	}
	return e, nil
}
