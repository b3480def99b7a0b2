package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is an ordered list of entity IDs stored as a JSON text column.
// Order is preserved exactly as written; membership checks are by string
// equality.
type IDList []string

// Scan implements sql.Scanner.
func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IDList", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer. An empty list is stored as "[]" so the
// column round-trips to an empty (not nil-surprising) list.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Contains reports whether id is present in the list.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the first occurrence of id, or -1.
func (l IDList) IndexOf(id string) int {
	for i, v := range l {
		if v == id {
			return i
		}
	}
	return -1
}

// RemoveFirst returns a copy of the list with the first occurrence of id
// removed. The receiver is not modified.
func (l IDList) RemoveFirst(id string) IDList {
	i := l.IndexOf(id)
	if i < 0 {
		return l
	}
	out := make(IDList, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out
}

// Append returns a copy of the list with id appended.
func (l IDList) Append(id string) IDList {
	out := make(IDList, 0, len(l)+1)
	out = append(out, l...)
	out = append(out, id)
	return out
}
