package models

import "time"

// ExplanationState is the lifecycle position of one item's explanation.
type ExplanationState string

const (
	ExplanationIdle       ExplanationState = "idle"
	ExplanationGenerating ExplanationState = "generating"
	ExplanationReady      ExplanationState = "ready"
	ExplanationError      ExplanationState = "error"
)

// ExplanationRecord holds the latest explanation for one MediaItem key.
// Regeneration overwrites it.
type ExplanationRecord struct {
	Key              string           `json:"key"`
	State            ExplanationState `json:"state"`
	ExplanationImage string           `json:"explanation_image,omitempty"`
	ExplanationText  string           `json:"explanation_text,omitempty"`
	ConfidenceScore  float64          `json:"confidence_score,omitempty"`
	Error            string           `json:"error,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
