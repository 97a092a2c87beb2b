package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	dbtypes "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID                       uuid.UUID   `json:"id"`
	Name                     string      `json:"name"`
	Surname                  string      `json:"surname"`
	Email                    string      `json:"email"`
	Gender                   string      `json:"gender"`
	TelNumber                *string     `json:"tel_number,omitempty"`
	Birthdate                *time.Time  `json:"birthdate,omitempty"`
	ProfileImage             string      `json:"profile_image"`
	FavouriteProductIDs      []uuid.UUID `json:"favourite_product_ids"`
	GetEmailNotificationFlag bool        `json:"get_email_notification_flag"`
	AdminFlag                bool        `json:"admin_flag"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name                     string
	Surname                  string
	Email                    string
	PasswordHash             string
	Gender                   string
	GetEmailNotificationFlag bool
	AdminFlag                bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                       u.ID,
		Name:                     u.Name,
		Surname:                  u.Surname,
		Email:                    u.Email,
		Gender:                   u.Gender,
		TelNumber:                u.TelNumber,
		Birthdate:                u.Birthdate,
		ProfileImage:             u.ProfileImage,
		FavouriteProductIDs:      append([]uuid.UUID(nil), []uuid.UUID(u.FavouriteProductIDs)...),
		GetEmailNotificationFlag: u.GetEmailNotificationFlag,
		AdminFlag:                u.AdminFlag,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:                     c.Name,
		Surname:                  c.Surname,
		Email:                    c.Email,
		PasswordHash:             c.PasswordHash,
		Gender:                   c.Gender,
		FavouriteProductIDs:      dbtypes.UUIDArray{},
		GetEmailNotificationFlag: c.GetEmailNotificationFlag,
		AdminFlag:                c.AdminFlag,
	}
}

func dbtypesArray(ids []uuid.UUID) dbtypes.UUIDArray {
	if ids == nil {
		return dbtypes.UUIDArray{}
	}
	return dbtypes.UUIDArray(ids)
}
