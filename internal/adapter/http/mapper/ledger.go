package mapper

import (
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/dto"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
)

func ToTaskResponseItems(responses []domain.TaskResponse) []dto.TaskResponseItem {
	items := make([]dto.TaskResponseItem, 0, len(responses))
	for _, response := range responses {
		items = append(items, ToTaskResponseItem(response))
	}
	return items
}

func ToTaskResponseItem(response domain.TaskResponse) dto.TaskResponseItem {
	return dto.TaskResponseItem{
		ID:          response.ID,
		TaskID:      response.TaskID,
		VolunteerID: response.VolunteerID,
		ProgramID:   response.ProgramID,
		Status:      string(response.Status),
		CreatedAt:   formatTime(response.CreatedAt),
	}
}

func ToPointsTransactionItems(txns []domain.PointsTransaction) []dto.PointsTransactionItem {
	items := make([]dto.PointsTransactionItem, 0, len(txns))
	for _, txn := range txns {
		items = append(items, ToPointsTransactionItem(txn))
	}
	return items
}

func ToPointsTransactionItem(txn domain.PointsTransaction) dto.PointsTransactionItem {
	return dto.PointsTransactionItem{
		ID:            txn.ID,
		VolunteerID:   txn.VolunteerID,
		TaskID:        copyString(txn.TaskID),
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Description:   copyString(txn.Description),
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     formatTime(txn.CreatedAt),
	}
}

func ToRatingItems(ratings []domain.VolunteerRating) []dto.RatingItem {
	items := make([]dto.RatingItem, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, ToRatingItem(rating))
	}
	return items
}

func ToRatingItem(rating domain.VolunteerRating) dto.RatingItem {
	return dto.RatingItem{
		ID:            rating.ID,
		VolunteerID:   rating.VolunteerID,
		TaskID:        rating.TaskID,
		RatedByUserID: rating.RatedByUserID,
		Score:         rating.Score,
		Comment:       copyString(rating.Comment),
		CreatedAt:     formatTime(rating.CreatedAt),
	}
}
