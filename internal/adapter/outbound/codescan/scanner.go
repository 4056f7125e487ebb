package codescan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/i2y/apicheck/internal/domain"
	"github.com/i2y/apicheck/internal/usecase"
)

// Scanner implements the usecase.EndpointScanner interface over a local directory tree.
type Scanner struct {
	matchers []usecase.RouteMatcher
	logger   *slog.Logger
}

// NewScanner creates a Scanner that recognizes routes with the given matchers.
// Each file is offered to every matcher whose extensions fit its name, in order.
func NewScanner(logger *slog.Logger, matchers ...usecase.RouteMatcher) *Scanner {
	names := make([]string, len(matchers))
	for i, m := range matchers {
		names[i] = m.Name()
	}
	return &Scanner{
		matchers: matchers,
		logger:   logger.With("component", "code_scanner", slog.Any("matchers", names)),
	}
}

// Scan walks root recursively in lexical order and returns one record per route
// declaration found in files carrying one of the matchers' extensions.
//
// The first unreadable file or directory aborts the scan; no partial result is returned.
func (s *Scanner) Scan(ctx context.Context, root string) ([]domain.EndpointRecord, error) {
	log := s.logger.With(slog.String("root", root))
	log.Info("Scanning code for endpoints")

	var records []domain.EndpointRecord
	files := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &usecase.ScanError{Path: path, Cause: walkErr}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matchers := s.matchersFor(d.Name())
		if len(matchers) == 0 {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return nil
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return &usecase.ScanError{Path: path, Cause: err}
		}
		files++

		for _, m := range matchFile(matchers, content) {
			log.Debug("Found endpoint", slog.String("file", path), slog.Int("line", m.Line), slog.String("endpoint", m.Path))
			records = append(records, domain.EndpointRecord{Location: path, Path: m.Path, Line: m.Line})
		}
		return nil
	})
	if err != nil {
		log.Error("Error finding endpoints", slog.Any("error", err))
		return nil, err
	}

	log.Info("Scan complete", slog.Int("files", files), slog.Int("endpoints", len(records)))
	return records, nil
}

// matchFile runs every matcher over content and returns the matches in line
// order. Matches on the same line keep the matchers' order.
func matchFile(matchers []usecase.RouteMatcher, content []byte) []domain.RouteMatch {
	if len(matchers) == 1 {
		return matchers[0].Match(content)
	}
	var all []domain.RouteMatch
	for _, matcher := range matchers {
		all = append(all, matcher.Match(content)...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Line < all[j].Line })
	return all
}

func (s *Scanner) matchersFor(name string) []usecase.RouteMatcher {
	var out []usecase.RouteMatcher
	for _, m := range s.matchers {
		for _, ext := range m.Extensions() {
			if strings.HasSuffix(name, ext) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
