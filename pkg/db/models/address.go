package models

import (
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/enums"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/types"
	"github.com/google/uuid"
)

// Address is a user-owned delivery address. At most one row per user
// carries IsDefaultFlag=true; setting a new default clears the others
// in the same transaction.
type Address struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Type          enums.AddressType  `gorm:"column:type;type:text;not null"`
	Country       string             `gorm:"column:country;not null"`
	City          string             `gorm:"column:city;not null"`
	District      string             `gorm:"column:district;not null"`
	Subdistrict   string             `gorm:"column:subdistrict;not null"`
	Neighborhood  string             `gorm:"column:neighborhood;not null"`
	Street        string             `gorm:"column:street;not null"`
	Boulevard     *string            `gorm:"column:boulevard"`
	Avenue        string             `gorm:"column:avenue;not null"`
	BuildingNo    *string            `gorm:"column:building_no"`
	DoorNo        string             `gorm:"column:door_no;not null"`
	Floor         string             `gorm:"column:floor;not null"`
	ApartmentNo   string             `gorm:"column:apartment_no;not null"`
	PostalCode    string             `gorm:"column:postal_code;not null"`
	FullAddress   string             `gorm:"column:full_address;not null"`
	Coordinates   *types.Coordinates `gorm:"column:coordinates;type:jsonb;serializer:json"`
	ValidFlag     bool               `gorm:"column:valid_flag;not null;default:true"`
	IsDefaultFlag bool               `gorm:"column:is_default_flag;not null;default:false"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
