package catalog

import "github.com/awaismughal2020/prodex/internal/domain/product"

// seedProducts returns the demo catalog loaded at startup when seeding is
// enabled.
func seedProducts() []product.Product {
	return []product.Product{
		product.Reconstruct(
			"1", "iPhone 15 Pro", "Latest Apple smartphone with advanced camera system",
			"Electronics", 999.99, 4.7,
			[]string{"smartphone", "apple", "premium", "camera"}, "apple",
			0.187, "14.7x7.2x0.8 cm", []string{"titanium", "blue"},
			true, 1694736000,
		),
		product.Reconstruct(
			"2", "Samsung Galaxy S24", "Flagship Android phone with AI features",
			"Electronics", 899.99, 4.5,
			[]string{"smartphone", "samsung", "android", "AI"}, "samsung",
			0.167, "14.7x7.1x0.8 cm", []string{"black", "violet"},
			true, 1705536000,
		),
		product.Reconstruct(
			"3", "MacBook Pro M3", "Professional laptop with M3 chip",
			"Computers", 1999.99, 4.8,
			[]string{"laptop", "apple", "professional", "M3"}, "apple",
			1.55, "31.3x22.1x1.6 cm", []string{"space gray", "silver"},
			true, 1698710400,
		),
		product.Reconstruct(
			"4", "Dell XPS 13", "Ultrabook with premium design",
			"Computers", 1299.99, 4.4,
			[]string{"laptop", "dell", "ultrabook", "portable"}, "dell",
			1.19, "29.6x19.9x1.5 cm", []string{"platinum"},
			true, 1688169600,
		),
		product.Reconstruct(
			"5", "Sony WH-1000XM5", "Noise-canceling wireless headphones",
			"Audio", 399.99, 4.6,
			[]string{"headphones", "sony", "wireless", "noise-canceling"}, "sony",
			0.25, "27x22x8 cm", []string{"black", "silver"},
			true, 1652400000,
		),
	}
}
