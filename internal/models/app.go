package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Owner struct {
	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:255;not null;index" json:"email"`
	Image string `gorm:"size:1024" json:"image"`
}

// Application is a submitted product listing. Upvotes always equals len(Voters)
// and Owner.Email never appears in Voters.
type Application struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"_id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Title       string                      `gorm:"size:255" json:"title"`
	Website     string                      `gorm:"size:1024" json:"website"`
	Description string                      `gorm:"type:text" json:"description"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Image       string                      `gorm:"size:1024" json:"image"`
	Owner       Owner                       `gorm:"embedded;embeddedPrefix:owner_" json:"owner"`
	Upvotes     int                         `gorm:"not null;default:0;check:upvotes >= 0" json:"upvotes"`
	Voters      datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"voters"`
	Status      AppStatus                   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IsFeatured  bool                        `gorm:"not null;default:false;index" json:"isFeatured"`
	CreatedAt   time.Time                   `gorm:"index" json:"createdAt"`
}

func (Application) TableName() string {
	return "apps"
}

// BeforeCreate fills defaults that a JSON null would otherwise break.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	if a.Voters == nil {
		a.Voters = datatypes.JSONSlice[string]{}
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

func (a *Application) HasVoter(email string) bool {
	for _, v := range a.Voters {
		if v == email {
			return true
		}
	}
	return false
}
