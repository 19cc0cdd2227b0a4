package repository

import (
	"net/url"
	"strings"
)

// itemPath joins a collection path and an escaped id.
func itemPath(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
}
