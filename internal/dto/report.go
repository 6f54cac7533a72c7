package dto

import "github.com/pm-ajay/adarsh-gram-api/internal/models"

// ReportRequest asks for a background export of a portal collection.
type ReportRequest struct {
	Type     models.ReportType   `json:"type" validate:"required"`
	Format   models.ReportFormat `json:"format" validate:"required"`
	District *string             `json:"district,omitempty"`
}

// ReportJobResponse acknowledges job creation.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress to polling clients.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
