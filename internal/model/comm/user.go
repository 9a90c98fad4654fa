package comm

import "time"

// User identifies a teacher account. Accounts are created at seed/signup
// time and treated as read-only by the inquiry workflow.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
