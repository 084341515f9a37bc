package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RolePetani  Role = "petani"
	RolePembeli Role = "pembeli"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePetani, RolePembeli, RoleAdmin:
		return true
	}
	return false
}

// User is a marketplace account. Farmer-only fields (ShopName, FarmArea,
// CoffeeTypes, Description) are empty for buyers and admins.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id,string"`
	Email    string `gorm:"uniqueIndex;size:255" json:"email"`
	Username string `gorm:"uniqueIndex;size:64" json:"username"`
	Password string `gorm:"size:255" json:"-"`
	Role     Role   `gorm:"size:16;index" json:"role"`
	Verified bool   `json:"is_verified"`

	FullName        string `json:"full_name"`
	PhoneNumber     string `gorm:"size:32" json:"phone_number"`
	Address         string `gorm:"type:text" json:"address"`
	Kecamatan       string `json:"kecamatan"`
	City            string `json:"city"`
	Province        string `json:"province"`
	PostalCode      string `gorm:"size:16" json:"postal_code"`
	ProfileImageUrl string `gorm:"size:1024" json:"profile_image_url"`

	ShopName    string `json:"shop_name"`
	FarmArea    string `json:"farm_area"`
	CoffeeTypes string `json:"coffee_types"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}
