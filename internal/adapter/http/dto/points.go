package dto

type PointsTransactionItem struct {
	ID            string  `json:"id"`
	VolunteerID   string  `json:"volunteer_id"`
	TaskID        *string `json:"task_id,omitempty"`
	Amount        int     `json:"amount"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	Description   *string `json:"description,omitempty"`
	BalanceBefore int     `json:"balance_before"`
	BalanceAfter  int     `json:"balance_after"`
	CreatedAt     string  `json:"created_at"`
}

type BalanceResponse struct {
	VolunteerID string `json:"volunteer_id"`
	Points      int    `json:"points"`
}

type PointsHistoryResponse struct {
	Items  []PointsTransactionItem `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

type AdjustPointsRequest struct {
	Amount      int     `json:"amount" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=manual_adjustment refund"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	TaskID      *string `json:"task_id" binding:"omitempty,max=36"`
}
