package main

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message" example:"CityGuide API is running!"`
	Version   string `json:"version"`
	Env       string `json:"env"`
	Timestamp string `json:"timestamp"`
}

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, &HealthResponse{
		Success:   true,
		Message:   "CityGuide API is running!",
		Version:   version,
		Env:       app.config.env,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}
