package http

type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type VerdictResponse struct {
	Status string `json:"status"`
	Data   struct {
		PrincipalID       string `json:"principal_id"`
		IsStaff           bool   `json:"is_staff"`
		HasDispatchAccess bool   `json:"has_dispatch_access"`
		IsHumanResources  bool   `json:"is_human_resources"`
		CheckedAt         string `json:"checked_at"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type DispatchAccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		PrincipalID string `json:"principal_id"`
		Tier        string `json:"tier"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
