package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/loyalty"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// RetentionService runs the lazy tier-year expiry check. It is triggered
// from read paths (the account view), never by a timer.
type RetentionService struct {
	db *gorm.DB
}

// NewRetentionService constructs a RetentionService.
func NewRetentionService(db *gorm.DB) *RetentionService {
	return &RetentionService{db: db}
}

// RetentionStatus describes where the user stands in their tier year.
type RetentionStatus struct {
	Tier         string                       `json:"tier"`
	Exempt       bool                         `json:"exempt"`
	Requirement  loyalty.RetentionRequirement `json:"requirement"`
	YearNights   int                          `json:"year_nights"`
	YearPoints   int                          `json:"year_points"`
	Met          bool                         `json:"met"`
	Renewed      bool                         `json:"renewed"`
	Downgraded   bool                         `json:"downgraded"`
	DowngradedTo string                       `json:"downgraded_to,omitempty"`
}

// Process evaluates the user's retention window and, if it has expired,
// either renews the tier year or downgrades to the tier implied by
// lifetime stats. Club Member is the permanent floor and is never
// processed.
func (s *RetentionService) Process(userID uuid.UUID) (*RetentionStatus, error) {
	today := utils.Today()
	status := &RetentionStatus{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		tier := loyalty.ParseTier(user.MembershipLevel)
		status.Tier = tier.String()
		status.YearNights = user.CurrentYearNights
		status.YearPoints = user.CurrentYearPoints

		requirement, required := tier.Retention()
		if !required {
			status.Exempt = true
			return nil
		}
		status.Requirement = requirement
		status.Met = user.CurrentYearNights >= requirement.Nights ||
			user.CurrentYearPoints >= requirement.Points

		// Users migrated before retention tracking existed get a
		// window starting now.
		if user.TierExpiryDate == nil {
			loyalty.StartTierYear(&user, today)
			return tx.Save(&user).Error
		}

		if !today.After(*user.TierExpiryDate) {
			return nil
		}

		if status.Met {
			status.Renewed = true
			loyalty.StartTierYear(&user, today)
			return tx.Save(&user).Error
		}

		// Failed requalification: fall back to the tier the lifetime
		// stats still justify.
		effective := loyalty.EffectiveTier(user.LifetimePoints, user.NightsStayed)
		if effective < tier {
			status.Downgraded = true
			status.DowngradedTo = effective.String()
			user.MembershipLevel = effective.String()
		}
		loyalty.StartTierYear(&user, today)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}
