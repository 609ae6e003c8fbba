// internal/domain/models/diagnostics.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelType identifies which diagnostic model produced a result.
type ModelType string

const (
	ModelBrainTumor ModelType = "brain_tumor"
	ModelFracture   ModelType = "fracture"
	ModelPneumonia  ModelType = "pneumonia"
)

// Label is the human-readable model name.
func (m ModelType) Label() string {
	switch m {
	case ModelBrainTumor:
		return "Brain Tumor Segmentation"
	case ModelFracture:
		return "Fracture Detection"
	case ModelPneumonia:
		return "Pneumonia Classification"
	}
	return string(m)
}

// Verdict of a diagnostic result.
type Verdict string

const (
	VerdictPositive Verdict = "positive"
	VerdictNegative Verdict = "negative"
)

// DiagnosticResult links a patient to a result recorded by an employee.
// EmployeeID is nil once the recording employee is removed.
type DiagnosticResult struct {
	ID         uuid.UUID  `json:"id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	ModelType  ModelType  `json:"model_type"`
	Verdict    Verdict    `json:"verdict"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Notification tells a patient about a specific result.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	ResultID  uuid.UUID `json:"result_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
