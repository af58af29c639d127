package domain

import "time"

// ModelName identifies one of the gateway's completion tiers.
type ModelName string

const (
	ModelMistral7B    ModelName = "mistral-7b"
	ModelMistralLarge ModelName = "mistral-large"
	ModelMixtral8x7B  ModelName = "mixtral-8x7b"
)

func SupportedModels() []ModelName {
	return []ModelName{ModelMistral7B, ModelMistralLarge, ModelMixtral8x7B}
}

func (m ModelName) Supported() bool {
	switch m {
	case ModelMistral7B, ModelMistralLarge, ModelMixtral8x7B:
		return true
	default:
		return false
	}
}

// SessionConfig is read at the start of every query; it may change between
// turns of the same session.
type SessionConfig struct {
	Model           ModelName `json:"model"`
	RememberHistory bool      `json:"remember_history"`
	ResultLimit     int       `json:"result_limit"`
}

// ConversationTurn is one completed (question, analysis) pair. Turns are
// append-only and ordered by Index.
type ConversationTurn struct {
	Index    int       `json:"index"`
	Question string    `json:"question"`
	Analysis string    `json:"analysis"`
	AskedAt  time.Time `json:"asked_at"`
}
