package query

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Predicate is an extra condition written with '?' placeholders.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Options describes how one entity's list query is assembled.
type Options struct {
	// SearchFields are the text columns searched by searchTerm.
	SearchFields []string
	// SoftDelete enables the is_deleted predicate.
	SoftDelete bool
	// AllowDeleted lets the isDeleted filter select deleted rows. When false
	// only live rows are returned whatever the caller sends.
	AllowDeleted bool
	DefaultSort  string
	DefaultOrder string
	MaxLimit     int
	// Where holds conditions that are always applied, e.g. ownership.
	Where []Predicate
	// Columns, when set, lists the snake_case columns a caller may filter or
	// sort on. Other keys are dropped.
	Columns []string
}

func (o Options) allows(key string) bool {
	return len(o.Columns) == 0 || slices.Contains(o.Columns, snake(key))
}

// Built is the SQL-ready form of a partitioned query.
type Built struct {
	Page   int
	Limit  int
	Offset int

	conditions []string
	args       []interface{}
	orderBy    string
}

// Build translates the partition into WHERE, ORDER BY and LIMIT/OFFSET parts.
func Build(p Parts, opts Options) Built {
	b := Built{}

	for _, pred := range opts.Where {
		b.add(pred.SQL, pred.Args...)
	}

	if term := first(p.Filters, KeySearchTerm); term != "" && len(opts.SearchFields) > 0 {
		ors := make([]string, 0, len(opts.SearchFields))
		args := make([]interface{}, 0, len(opts.SearchFields))
		for _, field := range opts.SearchFields {
			ors = append(ors, containsExpr(Column(field)))
			args = append(args, term)
		}
		b.add("("+strings.Join(ors, " OR ")+")", args...)
	}

	if opts.SoftDelete {
		deleted := opts.AllowDeleted && first(p.Filters, KeyIsDeleted) == "true"
		b.add(pq.QuoteIdentifier("is_deleted")+" = ?", deleted)
	}

	for _, key := range sortedKeys(p.Filters) {
		if key == KeySearchTerm || key == KeyIsDeleted || !opts.allows(key) {
			continue
		}
		value := first(p.Filters, key)
		if value == "" {
			continue
		}
		b.add(Column(key)+" = ?", value)
	}

	for _, key := range sortedKeys(p.Additional) {
		value := first(p.Additional, key)
		if value == "" || !opts.allows(key) {
			continue
		}
		b.add(containsExpr(Column(key)), value)
	}

	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	b.Page = positiveInt(first(p.Pagination, KeyPage), DefaultPage)
	b.Limit = positiveInt(first(p.Pagination, KeyLimit), DefaultLimit)
	if b.Limit > maxLimit {
		b.Limit = maxLimit
	}
	if b.Page-1 > math.MaxInt32/b.Limit {
		b.Page = DefaultPage
	}
	b.Offset = (b.Page - 1) * b.Limit

	b.orderBy = orderClause(opts.DefaultSort, opts.DefaultOrder)
	sortBy := first(p.Pagination, KeySortBy)
	sortOrder := strings.ToLower(first(p.Pagination, KeySortOrder))
	if sortBy != "" && opts.allows(sortBy) && (sortOrder == "asc" || sortOrder == "desc") {
		b.orderBy = orderClause(sortBy, sortOrder)
	}

	return b
}

// Where returns the WHERE clause, or an empty string when nothing applies.
func (b Built) Where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

// Args returns the arguments bound by Where.
func (b Built) Args() []interface{} {
	return append([]interface{}(nil), b.args...)
}

// SelectQuery appends the filter, ordering and paging clauses to base and
// rebinds it for Postgres.
func (b Built) SelectQuery(base string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(b.Where())
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	sb.WriteString(" LIMIT ? OFFSET ?")

	args := append(b.Args(), b.Limit, b.Offset)
	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), args
}

// CountQuery appends only the filter clause to base.
func (b Built) CountQuery(base string) (string, []interface{}) {
	return sqlx.Rebind(sqlx.DOLLAR, base+b.Where()), b.Args()
}

func (b *Built) add(cond string, args ...interface{}) {
	b.conditions = append(b.conditions, cond)
	b.args = append(b.args, args...)
}

// Column converts a camelCase query key into a quoted snake_case identifier.
func Column(key string) string {
	return pq.QuoteIdentifier(snake(key))
}

func snake(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func containsExpr(col string) string {
	return fmt.Sprintf("strpos(lower(%s::text), lower(?)) > 0", col)
}

func orderClause(column, order string) string {
	if column == "" {
		return ""
	}
	if strings.ToLower(order) == "asc" {
		return Column(column) + " ASC"
	}
	return Column(column) + " DESC"
}

func first(values map[string][]string, key string) string {
	if vs := values[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
