package dto

type RatingItem struct {
	ID            string  `json:"id"`
	VolunteerID   string  `json:"volunteer_id"`
	TaskID        string  `json:"task_id"`
	RatedByUserID string  `json:"rated_by_user_id"`
	Score         int     `json:"score"`
	Comment       *string `json:"comment,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type RateVolunteerRequest struct {
	TaskID  string  `json:"task_id" binding:"required,max=36"`
	Score   int     `json:"score" binding:"required,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

type RateVolunteerResponse struct {
	Rating      RatingItem `json:"rating"`
	Average     float64    `json:"average"`
	RatingCount int        `json:"rating_count"`
}
