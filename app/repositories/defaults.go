package repositories

import "github.com/shashiranjanraj/till/app/models"

// DefaultProducts is the catalog served before anything has been saved locally.
func DefaultProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Latte", Price: 22, Cost: 6, Category: "Drinks"},
		{ID: "2", Name: "Americano", Price: 18, Cost: 4, Category: "Drinks"},
		{ID: "3", Name: "Caramel Macchiato", Price: 25, Cost: 7, Category: "Drinks"},
		{ID: "4", Name: "Pour-over Yirgacheffe", Price: 32, Cost: 12, Category: "Drinks"},
		{ID: "5", Name: "Butter Croissant", Price: 12, Cost: 5, Category: "Bakery"},
		{ID: "6", Name: "Basque Cheesecake", Price: 28, Cost: 10, Category: "Desserts"},
		{ID: "7", Name: "Earl Grey Tea", Price: 15, Cost: 3, Category: "Drinks"},
		{ID: "8", Name: "Tiramisu", Price: 32, Cost: 12, Category: "Desserts"},
	}
}
