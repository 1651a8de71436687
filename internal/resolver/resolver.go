// Package resolver turns a user-supplied string (video ID, URL, or free-text
// query) into candidate videos.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"ytmux/internal/errs"
	"ytmux/internal/model"
)

var idPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// Searcher is the search capability free-text inputs are delegated to.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]model.Candidate, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, n int) ([]model.Candidate, error)

// Search implements Searcher.
func (f SearcherFunc) Search(ctx context.Context, query string, n int) ([]model.Candidate, error) {
	return f(ctx, query, n)
}

// Resolve maps input to one or more candidates. URL and bare-ID inputs resolve
// locally without any network call; everything else is treated as a search
// query for up to n results.
func Resolve(ctx context.Context, input string, n int, s Searcher) ([]model.Candidate, error) {
	if c, ok := ResolveLocal(input); ok {
		return []model.Candidate{c}, nil
	}

	results, err := s.Search(ctx, input, n)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", input, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: search %q returned nothing", errs.ErrNoCandidates, input)
	}
	return results, nil
}

// ResolveLocal handles the non-network cases: known URL shapes and literal
// 11-character IDs. The title is unknown until metadata is fetched.
func ResolveLocal(input string) (model.Candidate, bool) {
	s := strings.TrimSpace(input)
	if id, ok := FromURL(s); ok {
		return model.Candidate{ID: id}, true
	}
	if idPattern.MatchString(s) {
		return model.Candidate{ID: s}, true
	}
	return model.Candidate{}, false
}

// FromURL extracts a video ID from the known URL shapes:
// youtube.com/watch?v=ID (query parameter), youtu.be/ID (first path segment),
// and youtube.com/shorts/ID.
func FromURL(raw string) (string, bool) {
	if !strings.Contains(raw, "://") {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtu.be":
		id := firstSegment(u.Path)
		return id, idPattern.MatchString(id)
	case "youtube.com", "m.youtube.com":
		if strings.HasPrefix(u.Path, "/watch") {
			id := u.Query().Get("v")
			return id, idPattern.MatchString(id)
		}
		if strings.HasPrefix(u.Path, "/shorts/") {
			id := firstSegment(strings.TrimPrefix(u.Path, "/shorts"))
			return id, idPattern.MatchString(id)
		}
	}
	return "", false
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(path, '/'); idx != -1 {
		path = path[:idx]
	}
	return path
}
