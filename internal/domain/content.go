package domain

import "time"

// Blog is an admin-authored article. AuthorUsername is denormalized on
// purpose, it is a display field and not a foreign key.
type Blog struct {
	ID             int64     `gorm:"primaryKey" json:"id,string"`
	Title          string    `gorm:"index" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	ImageUrl       string    `gorm:"size:1024" json:"image_url"`
	AuthorUsername string    `gorm:"size:64" json:"author_username"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName Specify table name
func (Blog) TableName() string {
	return "blogs"
}

// CoffeePrice is a reference market price entry, one row per coffee type.
// Uniqueness per type is maintained by the upsert handler.
type CoffeePrice struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	CoffeeType  string    `gorm:"index;size:64" json:"coffee_type"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
}

// TableName Specify table name
func (CoffeePrice) TableName() string {
	return "coffee_prices"
}
