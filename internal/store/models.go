package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is an immutable snapshot of one generation request and its names.
type HistoryRecord struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	Industry       string    `json:"industry,omitempty"`
	Style          string    `json:"style,omitempty"`
	GeneratedNames []string  `json:"generated_names"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewHistoryRecord stamps a record with a fresh id and the current UTC time.
func NewHistoryRecord(description, industry, style string, names []string) *HistoryRecord {
	copied := make([]string, len(names))
	copy(copied, names)
	return &HistoryRecord{
		ID:             uuid.NewString(),
		Description:    description,
		Industry:       industry,
		Style:          style,
		GeneratedNames: copied,
		Timestamp:      time.Now().UTC(),
	}
}

// StatusCheck is a client ping persisted by the status endpoints.
type StatusCheck struct {
	ID         string
	ClientName string
	Timestamp  time.Time
}

// NewStatusCheck stamps a status check with a fresh id and the current UTC time.
func NewStatusCheck(clientName string) *StatusCheck {
	return &StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
}

// GenerationHistory is the SQL row backing a HistoryRecord.
type GenerationHistory struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Description string    `gorm:"type:text"`
	Industry    string    `gorm:"size:64"`
	Style       string    `gorm:"size:64"`
	NamesJSON   string    `gorm:"type:text"`
	Timestamp   time.Time `gorm:"index"`
}

// TableName keeps the collection name used by the document store.
func (GenerationHistory) TableName() string {
	return "generation_history"
}

// SetNames persists the name list as JSON.
func (h *GenerationHistory) SetNames(names []string) {
	if names == nil {
		h.NamesJSON = "[]"
		return
	}
	payload, _ := json.Marshal(names)
	h.NamesJSON = string(payload)
}

// Names returns the decoded name list.
func (h *GenerationHistory) Names() []string {
	if strings.TrimSpace(h.NamesJSON) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(h.NamesJSON), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func historyRow(record *HistoryRecord) *GenerationHistory {
	row := &GenerationHistory{
		ID:          record.ID,
		Description: record.Description,
		Industry:    record.Industry,
		Style:       record.Style,
		Timestamp:   record.Timestamp,
	}
	row.SetNames(record.GeneratedNames)
	return row
}

func (h *GenerationHistory) record() HistoryRecord {
	return HistoryRecord{
		ID:             h.ID,
		Description:    h.Description,
		Industry:       h.Industry,
		Style:          h.Style,
		GeneratedNames: h.Names(),
		Timestamp:      h.Timestamp.UTC(),
	}
}

// StatusCheckRow is the SQL row backing a StatusCheck.
type StatusCheckRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ClientName string    `gorm:"size:255"`
	Timestamp  time.Time `gorm:"index"`
}

func (StatusCheckRow) TableName() string {
	return "status_checks"
}
