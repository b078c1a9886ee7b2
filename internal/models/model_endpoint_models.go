package models

// ModelRequest is the body posted to the remote sentiment model.
type ModelRequest struct {
	Text string `json:"text"`
}

type ModelResponse struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}
