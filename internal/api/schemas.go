package api

import (
	"github.com/smartclipper/smartclip/internal/job"
)

// Status and preview payloads serialize straight from internal/job types,
// which carry the wire tags shared with the client.

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ServiceInfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Health  string `json:"health"`
}

type VoicesResponse struct {
	Voices []job.Voice `json:"voices"`
}

type CreateJobRequest struct {
	VideoURL    string `json:"video_url,omitempty"`
	ScriptInput string `json:"script_input"`
	Voice       string `json:"voice,omitempty"`
}

type CreateJobResponse struct {
	JobID  string     `json:"job_id"`
	Status job.Status `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
