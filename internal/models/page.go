package models

import "time"

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Page is a timestamp cursor. Before and After are exclusive bounds.
type Page struct {
	Before *time.Time
	After  *time.Time
	Limit  int
}

// Normalize applies the default page size and the 100 item cap.
func (p Page) Normalize() Page {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
	return p
}
