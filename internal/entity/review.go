package domain

import "time"

// GeneralReviewTarget marks a review left for the shop rather than a
// specific product.
const GeneralReviewTarget = "general"

type Review struct {
	ID          string
	ProductID   string
	ProductName string // empty for general reviews
	Name        string
	Rating      int // 1..5
	Comment     string
	CreatedAt   time.Time
}

// ClampRating forces a rating into the 1..5 band the star widget produces.
func ClampRating(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}
