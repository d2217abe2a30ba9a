package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}

type ExploreResponse struct {
	Animations []AnimationPreview `json:"animations"`
	Pagination Pagination         `json:"pagination"`
}
