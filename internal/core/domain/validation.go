package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors collects validation failures keyed by the name of the
// offending field. Each message appears at most once per field.
type ValidationErrors map[string][]string

// Add records msg for field.
func (v ValidationErrors) Add(field, msg string) {
	if v.Has(field, msg) {
		return
	}
	v[field] = append(v[field], msg)
}

// Has returns whether msg has been recorded for field.
func (v ValidationErrors) Has(field, msg string) bool {
	for _, m := range v[field] {
		if m == msg {
			return true
		}
	}
	return false
}

// IsEmpty returns whether no failure has been recorded.
func (v ValidationErrors) IsEmpty() bool {
	return len(v) <= 0
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errs := make([]string, 0, len(fields))
	for _, field := range fields {
		errs = append(errs, fmt.Sprintf("%s: %s", field, strings.Join(v[field], ", ")))
	}
	return strings.Join(errs, "; ")
}
