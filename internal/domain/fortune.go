package domain

// FortuneResponse is the object the agent is asked to produce. Only
// Result.Fortune is consumed; the rest is decoded for diagnostics.
type FortuneResponse struct {
	Result     FortuneResult    `json:"result"`
	Confidence float64          `json:"confidence"`
	Metadata   ResponseMetadata `json:"metadata"`
}

type FortuneResult struct {
	Fortune  string         `json:"fortune"`
	Theme    string         `json:"theme"` // "red" | "blue"
	Metadata FortuneDetails `json:"metadata"`
}

type FortuneDetails struct {
	Length    int    `json:"length"`
	Timestamp string `json:"timestamp"`
}

type ResponseMetadata struct {
	ProcessingTime string `json:"processing_time"`
	Model          string `json:"model"`
}
