package bank

import "github.com/love-prep/backend/internal/models"

func ids(qs []models.PracticeQuestion) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
