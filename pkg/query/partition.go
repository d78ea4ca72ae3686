// Package query splits raw list-endpoint query strings into filter, pagination
// and passthrough groups and turns them into parameterised SQL fragments.
package query

import (
	"net/url"
	"slices"
)

// Pagination keys recognised by every list endpoint.
const (
	KeyPage      = "page"
	KeyLimit     = "limit"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"

	KeySearchTerm = "searchTerm"
	KeyIsDeleted  = "isDeleted"
)

// PaginationKeys is the allow-list shared by all list endpoints.
var PaginationKeys = []string{KeyPage, KeyLimit, KeySortBy, KeySortOrder}

// Parts holds the three disjoint groups produced by Partition.
type Parts struct {
	Filters    url.Values
	Pagination url.Values
	Additional url.Values
}

// Partition assigns every key of raw to exactly one group. Pagination
// membership is checked before filter membership; keys in neither list end up
// in Additional. Values are copied through untouched.
func Partition(raw url.Values, filterKeys, paginationKeys []string) Parts {
	parts := Parts{
		Filters:    url.Values{},
		Pagination: url.Values{},
		Additional: url.Values{},
	}

	for key, values := range raw {
		switch {
		case slices.Contains(paginationKeys, key):
			parts.Pagination[key] = values
		case slices.Contains(filterKeys, key):
			parts.Filters[key] = values
		default:
			parts.Additional[key] = values
		}
	}

	return parts
}
