package codescan

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/i2y/apicheck/internal/domain"
	"github.com/i2y/apicheck/internal/usecase"
)

// Built-in route idioms. The first capture group of each pattern is the path.
var presets = map[string]struct {
	pattern    string
	extensions []string
}{
	// @app.route('/users') / @app.route("/users", methods=[...])
	"flask": {
		pattern:    `@app\.route\(['"](.*?)['"]`,
		extensions: []string{".py"},
	},
	// @app.get('/users')
	"fastapi": {
		pattern:    `@app\.(?:get|post|put|delete|patch|options|head)\(['"](.*?)['"]`,
		extensions: []string{".py"},
	},
	// app.get('/users', handler)
	"express": {
		pattern:    `app\.(?:get|post|put|delete|patch|options|head|all)\(['"](.*?)['"]`,
		extensions: []string{".js", ".ts"},
	},
}

// RegexMatcher implements usecase.RouteMatcher with a regular expression.
// It matches raw text only: routes built from variables, wrapped decorators or
// concatenated strings are not seen, and look-alike text in comments or strings is.
type RegexMatcher struct {
	name       string
	re         *regexp.Regexp
	extensions []string
}

// NewRegexMatcher compiles pattern, which must have at least one capture group.
// The first group is taken as the endpoint path.
func NewRegexMatcher(name, pattern string, extensions []string) (*RegexMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &usecase.ConfigError{Field: "route_pattern", Value: pattern, Message: err.Error(), Cause: err}
	}
	if re.NumSubexp() < 1 {
		return nil, &usecase.ConfigError{Field: "route_pattern", Value: pattern, Message: "pattern needs a capture group for the path"}
	}
	if len(extensions) == 0 {
		return nil, &usecase.ConfigError{Field: "extensions", Value: name, Message: "at least one file extension is required"}
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	return &RegexMatcher{name: name, re: re, extensions: exts}, nil
}

// Preset returns the built-in matcher registered under name.
func Preset(name string) (*RegexMatcher, error) {
	p, ok := presets[name]
	if !ok {
		return nil, &usecase.ConfigError{
			Field:   "route_preset",
			Value:   name,
			Message: fmt.Sprintf("unknown preset, expected one of %s", strings.Join(PresetNames(), ", ")),
		}
	}
	return NewRegexMatcher(name, p.pattern, p.extensions)
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *RegexMatcher) Name() string { return m.name }

func (m *RegexMatcher) Extensions() []string { return m.extensions }

// Pattern returns the source of the compiled expression.
func (m *RegexMatcher) Pattern() string { return m.re.String() }

// Match returns every non-overlapping match in content, in text order.
func (m *RegexMatcher) Match(content []byte) []domain.RouteMatch {
	locs := m.re.FindAllSubmatchIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]domain.RouteMatch, 0, len(locs))
	line, scanned := 1, 0
	for _, loc := range locs {
		// loc[2:4] is the first capture group; -1 when it did not participate.
		if loc[2] < 0 {
			continue
		}
		line += bytes.Count(content[scanned:loc[0]], []byte{'\n'})
		scanned = loc[0]
		matches = append(matches, domain.RouteMatch{
			Path: string(content[loc[2]:loc[3]]),
			Line: line,
		})
	}
	return matches
}
