package repo

import (
	"errors"

	"isa/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIConfigRepository fetches the per-tenant AI configuration rows.
// All getters treat a missing row as a valid absent state and return nil,
// so the aggregator can fall back to defaults without special casing.
type AIConfigRepository struct {
	db *gorm.DB
}

// NewAIConfigRepository creates a new AI config repository
func NewAIConfigRepository(db *gorm.DB) *AIConfigRepository {
	return &AIConfigRepository{db: db}
}

// GetBehaviorRules returns the tenant's conduct rules, nil when unset
func (r *AIConfigRepository) GetBehaviorRules(userID uuid.UUID) (*models.AIBehaviorRule, error) {
	var rule models.AIBehaviorRule
	err := r.db.Where("user_id = ?", userID).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetCompanyKnowledge returns the legacy company profile row, nil when unset
func (r *AIConfigRepository) GetCompanyKnowledge(userID uuid.UUID) (*models.CompanyKnowledge, error) {
	var knowledge models.CompanyKnowledge
	err := r.db.Where("user_id = ?", userID).First(&knowledge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &knowledge, nil
}

// GetAIMemory returns the tenant's AI memory document, nil when unset
func (r *AIConfigRepository) GetAIMemory(userID uuid.UUID) (*models.ClientAIMemory, error) {
	var memory models.ClientAIMemory
	err := r.db.Where("user_id = ?", userID).First(&memory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &memory, nil
}
