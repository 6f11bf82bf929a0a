package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is the base model for all persisted entities
type BaseModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" swaggerignore:"true"`
}

// BeforeCreate hook to generate UUID if not set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Client represents a paying tenant client record.
// The matricula is the short public identifier used to key catalogs.
type Client struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Matricula string    `gorm:"index" json:"matricula"`
	CPF       string    `gorm:"index" json:"cpf"`
	Name      string    `json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

// TableName pins the legacy table name
func (Client) TableName() string { return "clients" }

// Profile represents the per-user profile row created at signup.
// Unlike Client and Admin, the profile's own id is the tenant user id.
type Profile struct {
	BaseModel
	Matricula string `gorm:"index" json:"matricula"`
	CPF       string `gorm:"index" json:"cpf"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

// TableName pins the legacy table name
func (Profile) TableName() string { return "profiles" }

// Admin represents a platform administrator who also owns a storefront
type Admin struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Matricula string    `gorm:"index" json:"matricula"`
	CPF       string    `gorm:"index" json:"cpf"`
}

// TableName pins the legacy table name
func (Admin) TableName() string { return "admins" }

// Product represents an item in a tenant's catalog.
// Catalogs are keyed by matricula; UserID remains as a fallback key for
// products written before matriculas existed.
type Product struct {
	BaseModel
	Matricula   string     `gorm:"index" json:"matricula"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Code        string     `gorm:"size:6;index" json:"code" validate:"required,len=6,alphanum"`
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Price       float64    `gorm:"type:numeric(10,2);not null" json:"price" validate:"required,gte=0"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}

// TableName pins the legacy table name
func (Product) TableName() string { return "products" }

// AIBehaviorRule holds the free-text conduct rules a tenant configured
type AIBehaviorRule struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Rules  string    `gorm:"type:text" json:"rules"`
}

// TableName pins the legacy table name
func (AIBehaviorRule) TableName() string { return "ai_behavior_rules" }

// CompanyKnowledge is the legacy structured company profile table.
// Newer tenants keep the same data inside the AI memory document; when both
// exist the memory document wins field-by-field.
type CompanyKnowledge struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name           string    `json:"name"`
	Industry       string    `json:"industry"`
	Segment        string    `json:"segment"`
	TargetAudience string    `json:"target_audience"`
	Differentials  string    `gorm:"type:text" json:"differentials"`
	Mission        string    `gorm:"type:text" json:"mission"`
	BusinessHours  string    `json:"business_hours"`
	Location       string    `json:"location"`
	Promotions     string    `gorm:"type:text" json:"promotions"`
	VitrineLink    string    `json:"vitrine_link"`
	OfficialLinks  string    `gorm:"type:text" json:"official_links"`
	AdditionalInfo string    `gorm:"type:text" json:"additional_info"`
}

// TableName pins the legacy table name
func (CompanyKnowledge) TableName() string { return "company_knowledge" }

// ClientAIMemory stores the per-tenant AI memory document
type ClientAIMemory struct {
	BaseModel
	UserID uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Config AIMemoryConfig `gorm:"type:jsonb" json:"config"`
}

// TableName pins the legacy table name
func (ClientAIMemory) TableName() string { return "client_ai_memory" }

// GetAllModels returns all models for GORM AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		&Client{},
		&Profile{},
		&Admin{},
		&Product{},
		&AIBehaviorRule{},
		&CompanyKnowledge{},
		&ClientAIMemory{},
	}
}
