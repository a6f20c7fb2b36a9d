package health

type Input struct{}

type Output struct {
	Body Response
}

// Response - состояние сервера и хранилища, в котором лежит реестр студентов
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Health status of the service"`
	Storage string `json:"storage" example:"postgres" doc:"Storage backend serving the roster"`
}
