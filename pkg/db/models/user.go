package models

import (
	"time"

	dbtypes "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/types"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID                       uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                     string            `gorm:"column:name;not null"`
	Surname                  string            `gorm:"column:surname;not null"`
	Email                    string            `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash             string            `gorm:"column:password_hash;not null"`
	Gender                   string            `gorm:"column:gender;not null"`
	TelNumber                *string           `gorm:"column:tel_number"`
	Birthdate                *time.Time        `gorm:"column:birthdate"`
	ProfileImage             string            `gorm:"column:profile_image;not null;default:''"`
	FavouriteProductIDs      dbtypes.UUIDArray `gorm:"type:uuid[];column:favourite_product_ids;not null;default:ARRAY[]::uuid[]"`
	GetEmailNotificationFlag bool              `gorm:"column:get_email_notification_flag;not null;default:false"`
	AdminFlag                bool              `gorm:"column:admin_flag;not null;default:false"`
	CreatedAt                time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
