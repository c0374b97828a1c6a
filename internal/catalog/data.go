package catalog

func price(v float64) *float64 { return &v }

func seedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Nuts", Image: "https://images.unsplash.com/photo-1599599810769-bcde5a160d32?q=80&w=2069&auto=format&fit=crop"},
		{ID: "2", Name: "Dried Fruits", Image: "https://images.unsplash.com/photo-1596591868231-05e586abf2fb?q=80&w=2070&auto=format&fit=crop"},
		{ID: "3", Name: "Seeds", Image: "https://images.unsplash.com/photo-1574570231616-bfceabd9b2c6?q=80&w=2012&auto=format&fit=crop"},
		{ID: "4", Name: "Trail Mixes", Image: "https://images.unsplash.com/photo-1604068549290-dea0e4a305ca?q=80&w=2067&auto=format&fit=crop"},
		{ID: "5", Name: "Gift Packs", Image: "https://images.unsplash.com/photo-1607920592519-bab2a80efd55?q=80&w=2070&auto=format&fit=crop"},
	}
}

func seedProducts() []Product {
	return []Product{
		{
			ID:              "1",
			Name:            "Premium Cashews",
			Description:     "Crunchy, delicious cashews that are perfect for snacking or adding to your favorite recipes.",
			Price:           599,
			DiscountedPrice: price(499),
			Image:           "https://images.unsplash.com/photo-1563412885-e335dc95c512?q=80&w=2574&auto=format&fit=crop",
			Category:        "Nuts",
			Weight:          "250g",
			InStock:         true,
			Rating:          4.8,
			NutritionalInfo: &NutritionalInfo{Calories: "160 kcal per 30g", Protein: "5g per 30g", Fat: "13g per 30g", Carbs: "9g per 30g"},
			Tags:            []string{"premium", "healthy", "protein-rich"},
		},
		{
			ID:              "2",
			Name:            "Organic Almonds",
			Description:     "Naturally grown almonds that are packed with nutrients and great taste.",
			Price:           699,
			DiscountedPrice: price(649),
			Image:           "https://images.unsplash.com/photo-1574570039896-36186a210e0b?q=80&w=2574&auto=format&fit=crop",
			Category:        "Nuts",
			Weight:          "500g",
			InStock:         true,
			Rating:          4.7,
			NutritionalInfo: &NutritionalInfo{Calories: "170 kcal per 30g", Protein: "6g per 30g", Fat: "15g per 30g", Carbs: "6g per 30g"},
			Tags:            []string{"organic", "healthy", "protein-rich"},
		},
		{
			ID:              "3",
			Name:            "Golden Raisins",
			Description:     "Sweet and juicy golden raisins that add natural sweetness to any dish.",
			Price:           299,
			Image:           "https://images.unsplash.com/photo-1596591868231-05e586abf2fb?q=80&w=2070&auto=format&fit=crop",
			Category:        "Dried Fruits",
			Weight:          "200g",
			InStock:         true,
			Rating:          4.5,
			NutritionalInfo: &NutritionalInfo{Calories: "130 kcal per 30g", Protein: "1g per 30g", Fat: "0g per 30g", Carbs: "31g per 30g"},
			Tags:            []string{"sweet", "natural", "no-added-sugar"},
		},
		{
			ID:              "4",
			Name:            "Dried Apricots",
			Description:     "Soft and tangy dried apricots that are perfect for snacking or baking.",
			Price:           399,
			DiscountedPrice: price(349),
			Image:           "https://images.unsplash.com/photo-1596591868252-07ca4d16b5fb?q=80&w=2070&auto=format&fit=crop",
			Category:        "Dried Fruits",
			Weight:          "250g",
			InStock:         true,
			Rating:          4.6,
			NutritionalInfo: &NutritionalInfo{Calories: "80 kcal per 30g", Protein: "1g per 30g", Fat: "0g per 30g", Carbs: "18g per 30g"},
			Tags:            []string{"tangy", "fiber-rich", "no-added-sugar"},
		},
		{
			ID:              "5",
			Name:            "Roasted Pistachios",
			Description:     "Lightly salted and roasted pistachios that are irresistibly delicious.",
			Price:           799,
			DiscountedPrice: price(749),
			Image:           "https://images.unsplash.com/photo-1574570039896-2d5c1e1e24f4?q=80&w=2574&auto=format&fit=crop",
			Category:        "Nuts",
			Weight:          "200g",
			InStock:         true,
			Rating:          4.9,
			NutritionalInfo: &NutritionalInfo{Calories: "160 kcal per 30g", Protein: "6g per 30g", Fat: "13g per 30g", Carbs: "8g per 30g"},
			Tags:            []string{"roasted", "salted", "premium"},
		},
		{
			ID:              "6",
			Name:            "Mixed Dried Berries",
			Description:     "A delicious mix of cranberries, blueberries, and strawberries.",
			Price:           549,
			Image:           "https://images.unsplash.com/photo-1596591868252-07ca4d16b5fb?q=80&w=2070&auto=format&fit=crop",
			Category:        "Dried Fruits",
			Weight:          "150g",
			InStock:         true,
			Rating:          4.7,
			NutritionalInfo: &NutritionalInfo{Calories: "100 kcal per 30g", Protein: "0g per 30g", Fat: "0g per 30g", Carbs: "24g per 30g"},
			Tags:            []string{"antioxidants", "mixed", "berries"},
		},
		{
			ID:              "7",
			Name:            "Pumpkin Seeds",
			Description:     "Nutrient-rich pumpkin seeds that are great for snacking or adding to salads.",
			Price:           349,
			DiscountedPrice: price(299),
			Image:           "https://images.unsplash.com/photo-1574570231616-bfceabd9b2c6?q=80&w=2012&auto=format&fit=crop",
			Category:        "Seeds",
			Weight:          "200g",
			InStock:         true,
			Rating:          4.5,
			NutritionalInfo: &NutritionalInfo{Calories: "150 kcal per 30g", Protein: "7g per 30g", Fat: "13g per 30g", Carbs: "5g per 30g"},
			Tags:            []string{"zinc-rich", "protein", "healthy"},
		},
		{
			ID:              "8",
			Name:            "Premium Trail Mix",
			Description:     "A perfect blend of nuts, seeds, and dried fruits for an energy boost.",
			Price:           499,
			Image:           "https://images.unsplash.com/photo-1604068549290-dea0e4a305ca?q=80&w=2067&auto=format&fit=crop",
			Category:        "Trail Mixes",
			Weight:          "300g",
			InStock:         true,
			Rating:          4.8,
			NutritionalInfo: &NutritionalInfo{Calories: "140 kcal per 30g", Protein: "5g per 30g", Fat: "9g per 30g", Carbs: "12g per 30g"},
			Tags:            []string{"energy", "mixed", "on-the-go"},
		},
		{
			ID:              "9",
			Name:            "Luxury Dry Fruit Gift Box",
			Description:     "An elegant assortment of premium dry fruits and nuts in a beautiful gift box.",
			Price:           1299,
			DiscountedPrice: price(1199),
			Image:           "https://images.unsplash.com/photo-1607920592519-bab2a80efd55?q=80&w=2070&auto=format&fit=crop",
			Category:        "Gift Packs",
			Weight:          "750g",
			InStock:         true,
			Rating:          4.9,
			Tags:            []string{"gift", "premium", "assortment"},
		},
		{
			ID:              "10",
			Name:            "Walnuts",
			Description:     "Brain-shaped nuts that are actually good for your brain! Rich in omega-3 fatty acids.",
			Price:           699,
			DiscountedPrice: price(649),
			Image:           "https://images.unsplash.com/photo-1599599810769-bcde5a160d32?q=80&w=2069&auto=format&fit=crop",
			Category:        "Nuts",
			Weight:          "250g",
			InStock:         true,
			Rating:          4.7,
			NutritionalInfo: &NutritionalInfo{Calories: "190 kcal per 30g", Protein: "4g per 30g", Fat: "18g per 30g", Carbs: "4g per 30g"},
			Tags:            []string{"omega-3", "brain-health", "premium"},
		},
	}
}
