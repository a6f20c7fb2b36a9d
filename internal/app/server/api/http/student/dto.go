package student

import "studentadmin/internal/domain/student"

type listOutput struct {
	Body []student.Student
}

type createInput struct {
	Body student.Draft
}

type studentOutput struct {
	Body student.Student
}

type updateInput struct {
	ID   int `path:"id" minimum:"1" doc:"Student identifier"`
	Body student.Student
}

type deleteInput struct {
	ID int `path:"id" minimum:"1" doc:"Student identifier"`
}

type deleteOutput struct {
	Body StatusResponse
}

type StatusResponse struct {
	Status string `json:"status" example:"Ok"`
}
