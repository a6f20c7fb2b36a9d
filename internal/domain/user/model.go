package user

import "time"

type User struct {
	ID        int
	Email     string
	Password  string // хэш
	CreatedAt time.Time
}

// Credentials - тело POST /auth/login
type Credentials struct {
	Email    string `json:"email" minLength:"3" maxLength:"254" doc:"Account email"`
	Password string `json:"password" minLength:"1" maxLength:"72" doc:"Account password"`
}
