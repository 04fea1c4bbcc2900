package domain

import "time"

// DefaultPosition is assigned to employees created without a position.
const DefaultPosition = "General"

// Employee is a person tasks can be assigned to.
type Employee struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeePatch holds the fields of a partial employee update. Nil means unchanged.
type EmployeePatch struct {
	Name     *string
	Email    *string
	Position *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Position == nil
}
