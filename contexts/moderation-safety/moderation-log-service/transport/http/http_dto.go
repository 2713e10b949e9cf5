package http

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type CreateLogRequest struct {
	TargetID   string `json:"target_id,omitempty"`
	TargetName string `json:"target_name"`
	ActionKind string `json:"action_kind"`
	Reason     string `json:"reason,omitempty"`
}

type LogEntryBody struct {
	ID                int64   `json:"id"`
	AuthorID          *string `json:"author_id"`
	AuthorName        *string `json:"author_name"`
	TargetID          *string `json:"target_id"`
	TargetName        string  `json:"target_name"`
	ActionKind        string  `json:"action_kind"`
	Reason            string  `json:"reason"`
	PriorOffenseCount int     `json:"prior_offense_count"`
	CreatedAt         string  `json:"created_at"`
	Pinned            bool    `json:"pinned"`
	Completed         bool    `json:"completed"`
	CompletedBy       *string `json:"completed_by"`
	CompletedByID     *string `json:"completed_by_id"`
	CompletedAt       *string `json:"completed_at"`
}

type LogResponse struct {
	Status    string       `json:"status"`
	Data      LogEntryBody `json:"data"`
	Timestamp string       `json:"timestamp"`
}

type LogListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []LogEntryBody `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type DeleteResponse struct {
	Status string `json:"status"`
	Data   struct {
		ID int64 `json:"id"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
