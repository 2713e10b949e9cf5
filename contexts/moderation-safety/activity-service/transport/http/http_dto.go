package http

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type ActivityListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items []struct {
			ID        string `json:"id"`
			ActorID   string `json:"actor_id"`
			ActorName string `json:"actor_name"`
			AvatarRef string `json:"avatar_ref,omitempty"`
			Action    string `json:"action"`
			CreatedAt string `json:"created_at"`
		} `json:"items"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
