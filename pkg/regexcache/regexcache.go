// Package regexcache caches compiled detection patterns.
//
// Usage:
//
//	re := regexcache.MustGet(`generator="wordpress/([^"]+)"`)
//	m := re.FindStringSubmatch(body)
package regexcache

import (
	"regexp"
	"sync"
)

var cache sync.Map

// Get returns the compiled form of pattern, compiling it on first use.
func Get(pattern string) (*regexp.Regexp, error) {
	if cached, ok := cache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// MustGet is Get for patterns known at compile time. It panics on a bad pattern.
func MustGet(pattern string) *regexp.Regexp {
	re, err := Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// MustGetFold is MustGet with case-insensitive matching.
func MustGetFold(pattern string) *regexp.Regexp {
	return MustGet("(?i)" + pattern)
}

// FirstSubmatch returns the first capture group of pattern in s, or "".
func FirstSubmatch(pattern, s string) string {
	m := MustGet(pattern).FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Size returns the number of cached patterns.
func Size() int {
	n := 0
	cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
