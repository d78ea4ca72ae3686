package repository

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrInUse            = errors.New("record is still referenced")
)

// Changes maps column names to new values for a partial update. Keys are
// fixed by the caller's code, never taken from a request.
type Changes map[string]interface{}

// Set records value under column when value is non-nil.
func (c Changes) Set(column string, value interface{}) Changes {
	switch v := value.(type) {
	case nil:
	case *string:
		if v != nil {
			c[column] = *v
		}
	case *bool:
		if v != nil {
			c[column] = *v
		}
	case *int:
		if v != nil {
			c[column] = *v
		}
	default:
		c[column] = value
	}
	return c
}
