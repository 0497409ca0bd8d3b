package health

type Input struct{}

type Output struct {
	Body Response
}

// Response - статус сервиса; sessions считает и уже отправленные, но не закрытые формы
type Response struct {
	Status   string `json:"status" example:"OK" doc:"Health status of the service"`
	Sessions int    `json:"sessions" example:"3" doc:"Open form sessions"`
}
