// Package scoring holds the pure decision rules around a complaint: priority
// and severity weights used as sort keys, the AI categorization rule, upvote
// application, and the trending score.
package scoring

import (
	"math"
	"time"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/models"
)

// PriorityWeight returns the sort weight (1-4) for a priority level.
// It returns 0 if the priority is not recognized.
func PriorityWeight(p models.Priority) int {
	return config.Priorities[p].Weight
}

// SeverityWeight returns the sort weight (1-4) for a severity level.
// It returns 0 if the severity is not recognized.
func SeverityWeight(s models.Severity) int {
	return config.Severities[s].Weight
}

// ResolveCategory decides the authoritative category for a new complaint.
// When the AI confidence meets the threshold the detected category may
// replace the user's choice, depending on the configured policy; below the
// threshold the suggestion is stored on the complaint but the user's choice
// stands. An AI category that is not in the catalog is ignored.
func ResolveCategory(userChoice, aiCategory models.Category, confidence float64, policy config.AICategoryPolicy) models.Category {
	if aiCategory == "" || confidence < config.AIConfidenceThreshold {
		return userChoice
	}
	if _, ok := config.GetCategoryConfig(aiCategory); !ok {
		return userChoice
	}
	switch policy {
	case config.AIPolicyFillOther:
		if userChoice == models.CategoryOther {
			return aiCategory
		}
		return userChoice
	default: // overwrite
		return aiCategory
	}
}

// ApplyUpvote records one upvote from userID. Each user may upvote at most
// once; the upvote count always equals the size of the upvoter set. Upvotes
// are permanent, there is no un-upvote.
func ApplyUpvote(c *models.Complaint, userID string, now time.Time) error {
	if c.HasUpvoteFrom(userID) {
		return apperrors.Wrap(apperrors.ErrAlreadyUpvoted, "user %s on complaint %s", userID, c.ID)
	}
	c.UpvotedBy = append(c.UpvotedBy, userID)
	c.Upvotes = len(c.UpvotedBy)
	c.UpdatedDate = now
	return nil
}

// TrendingScore ranks a complaint by upvotes decayed by recency: each upvote
// counts in full at creation time and halves every TrendingHalfLife. A
// complaint with zero upvotes scores zero regardless of age.
func TrendingScore(upvotes int, createdDate, now time.Time) float64 {
	if upvotes <= 0 {
		return 0
	}
	age := now.Sub(createdDate)
	if age < 0 {
		age = 0
	}
	halfLives := age.Hours() / config.TrendingHalfLife.Hours()
	return float64(upvotes) * math.Pow(0.5, halfLives)
}
