package domain

import "time"

// Product is a catalog item owned by a petani seller. Price is in the
// smallest currency unit (rupiah).
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Name        string    `gorm:"index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageUrl    string    `gorm:"size:1024" json:"image_url"`
	SellerId    int64     `gorm:"index" json:"seller_id,string"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
