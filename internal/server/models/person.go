package models

import "time"

// Person is the sole entity of the service.
//
// Password always holds a bcrypt digest and is never serialized, so any
// person-shaped response omits it.
type Person struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Gender      *string   `json:"gender"`
	Religion    *string   `json:"religion"`
	Nationality *string   `json:"nationality"`
	Password    string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PersonUpdate is a partial replace: nil fields are left unchanged.
// Password, when set, must already be a digest.
type PersonUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Gender      *string
	Religion    *string
	Nationality *string
	Password    *string
}

// IsEmpty reports whether the update would change nothing.
func (u PersonUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.Gender == nil && u.Religion == nil && u.Nationality == nil &&
		u.Password == nil
}
