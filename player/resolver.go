package player

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ResolveQuery builds a track from a URL or a free-form search query.
// URL queries take their title from the last path segment.
func ResolveQuery(query string) (Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Track{}, errors.New("empty query")
	}

	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		u, err := url.Parse(query)
		if err != nil {
			return Track{}, fmt.Errorf("parse track url: %w", err)
		}
		title := strings.Trim(path.Base(u.Path), "/")
		if title == "" || title == "." {
			title = u.Host
		}
		return Track{Title: title, URL: query}, nil
	}
	return Track{Title: query}, nil
}
