package domain

var Tables = []interface{}{
	// Identity
	&User{},
	// Catalog
	&Product{},
	// Orders
	&Order{},
	&OrderItem{},
	// Content
	&Blog{},
	&CoffeePrice{},
}
