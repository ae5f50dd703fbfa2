package domain

import (
	"net/url"
	"strings"
)

// ViewPath is the receiver page every share link points at.
const ViewPath = "/view"

// Link is a parsed share URL: the identifier travels in the query, the key in
// the fragment. User agents never send the fragment to the server.
type Link struct {
	BaseURL string
	ID      SecretID
	Key     string
}

// String renders the link as <base>/view?id=<id>#<key>.
func (l Link) String() string {
	return strings.TrimRight(l.BaseURL, "/") + ViewPath + "?id=" + l.ID.String() + "#" + l.Key
}

// ParseLink extracts the identifier and key from a share URL.
// Returns ErrInvalidLink when either part is missing or malformed.
func ParseLink(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Link{}, ErrInvalidLink
	}

	id, err := ParseID(u.Query().Get("id"))
	if err != nil {
		return Link{}, ErrInvalidLink
	}

	if u.Fragment == "" {
		return Link{}, ErrInvalidLink
	}

	base := url.URL{Scheme: u.Scheme, Host: u.Host, Path: strings.TrimSuffix(u.Path, ViewPath)}

	return Link{
		BaseURL: strings.TrimRight(base.String(), "/"),
		ID:      id,
		Key:     u.Fragment,
	}, nil
}
