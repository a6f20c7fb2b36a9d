package user

import "studentadmin/internal/domain/user"

type loginInput struct {
	Body user.Credentials
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token string `json:"token" doc:"Bearer token for protected endpoints"`
}
