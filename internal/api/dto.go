package api

import (
	"time"

	"namecraft/backend/internal/store"
)

// GenerateNamesRequest is the body of POST /api/generate-names.
type GenerateNamesRequest struct {
	Description string `json:"description" binding:"max=1000"`
	Industry    string `json:"industry"`
	Style       string `json:"style"`
	Count       *int   `json:"count" binding:"omitempty,min=1,max=20"`
}

// GenerateNamesResponse carries the generated names.
type GenerateNamesResponse struct {
	Names          []string `json:"names"`
	GeneratedCount int      `json:"generated_count"`
}

// HistoryDTO is the API representation of a stored generation.
type HistoryDTO struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	Industry       *string   `json:"industry"`
	Style          *string   `json:"style"`
	GeneratedNames []string  `json:"generated_names"`
	Timestamp      time.Time `json:"timestamp"`
}

// StatusCheckCreate is the body of POST /api/status.
type StatusCheckCreate struct {
	ClientName string `json:"client_name" binding:"required"`
}

// StatusCheckDTO is a persisted status ping.
type StatusCheckDTO struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

func toHistoryDTO(record store.HistoryRecord) HistoryDTO {
	names := record.GeneratedNames
	if names == nil {
		names = []string{}
	}
	return HistoryDTO{
		ID:             record.ID,
		Description:    record.Description,
		Industry:       optionalString(record.Industry),
		Style:          optionalString(record.Style),
		GeneratedNames: names,
		Timestamp:      record.Timestamp,
	}
}

func toHistoryDTOs(records []store.HistoryRecord) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toHistoryDTO(record))
	}
	return out
}

func toStatusCheckDTO(check store.StatusCheck) StatusCheckDTO {
	return StatusCheckDTO{ID: check.ID, ClientName: check.ClientName, Timestamp: check.Timestamp}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
