package domain

// Stats summarises the task collection for the dashboard.
type Stats struct {
	Total        int `json:"total"`
	Todo         int `json:"todo"`
	InProgress   int `json:"in_progress"`
	Done         int `json:"done"`
	HighPriority int `json:"high_priority"`
}
