package entity

// HealthCheckResponse ответ health check
type HealthCheckResponse struct {
	Status  bool                    `json:"status" example:"true"`
	Message string                  `json:"message" example:"success"`
	Version string                  `json:"version" example:"0.1.0"`
	Checks  HealthCheckResponseData `json:"checks"`
}

// HealthCheckResponseData детали проверок
type HealthCheckResponseData struct {
	Database HealthCheckItem `json:"database"`
	Kafka    HealthCheckItem `json:"kafka"`
}

// HealthCheckItem состояние одного компонента
type HealthCheckItem struct {
	Status bool   `json:"status" example:"true"`
	Type   string `json:"type" example:"postgresql"`
	Error  string `json:"error,omitempty" example:"Database connection failed"`
}

func NewHealthCheckResponse(version string, dbHealthy, kafkaHealthy bool) HealthCheckResponse {
	resp := HealthCheckResponse{
		Status:  dbHealthy && kafkaHealthy,
		Message: "success",
		Version: version,
		Checks: HealthCheckResponseData{
			Database: HealthCheckItem{Status: dbHealthy, Type: "postgresql"},
			Kafka:    HealthCheckItem{Status: kafkaHealthy, Type: "kafka"},
		},
	}
	if !dbHealthy {
		resp.Checks.Database.Error = "Database connection failed"
		resp.Message = "Some services are unavailable"
	}
	if !kafkaHealthy {
		resp.Checks.Kafka.Error = "Kafka connection failed"
		resp.Message = "Some services are unavailable"
	}
	return resp
}
