package dto

import "time"

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// MigrateResponse is returned by the migrate endpoint
type MigrateResponse struct {
	Message  string      `json:"message"`
	Migrated bool        `json:"migrated"`
	Report   interface{} `json:"report"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string            `json:"status"`
	Backends map[string]string `json:"backends"`
	Time     time.Time         `json:"time"`
}
