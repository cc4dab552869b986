package scenario

import "github.com/retailbench/retailbench/internal/models"

// Builtin returns the catalog of built-in retail scenarios.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinScenarios()...)
	if err != nil {
		// Builtins are compile-time constants; a duplicate id is a bug.
		panic(err)
	}
	return c
}

func builtinScenarios() []models.Scenario {
	return []models.Scenario{
		{
			ID:          "retail_001",
			Title:       "Basic Product Search",
			Description: "Customer searches for a specific product type",
			UserGoal:    "Find and get information about wireless headphones",
			SuccessCriteria: []string{
				"Agent uses search_products tool",
				"Agent provides relevant product options",
				"Agent includes pricing and availability information",
				"No policy violations occur",
			},
			ConversationStarters: []string{
				"I'm looking for wireless headphones, can you help me find some?",
				"Do you have any good headphones available?",
				"I need headphones for working out, what do you recommend?",
			},
			Complexity:    models.ComplexitySimple,
			ExpectedTools: []string{"search_products", "get_product_details"},
			PolicyFocus:   []string{"pricing", "inventory"},
			CustomerProfile: map[string]any{
				"id":           "cust_001",
				"segment":      "casual_shopper",
				"budget_range": "100-300",
			},
		},
		{
			ID:          "retail_002",
			Title:       "Out of Stock Product Handling",
			Description: "Customer wants a product that is currently out of stock",
			UserGoal:    "Purchase a coffee maker that is out of stock",
			SuccessCriteria: []string{
				"Agent checks inventory status",
				"Agent clearly communicates out-of-stock status",
				"Agent offers alternatives or backorder options",
				"No false availability claims made",
			},
			ConversationStarters: []string{
				"I want to buy a coffee maker, do you have any?",
				"I need a coffee maker for my office, what's available?",
				"Can I order the automatic coffee maker I saw in your catalog?",
			},
			Complexity:    models.ComplexityMedium,
			ExpectedTools: []string{"search_products", "check_inventory", "get_product_details"},
			PolicyFocus:   []string{"inventory", "sales_ethics"},
			CustomerProfile: map[string]any{
				"id":      "cust_002",
				"segment": "office_buyer",
				"urgency": "high",
			},
		},
		{
			ID:          "retail_003",
			Title:       "Multi-Item Order Placement",
			Description: "Customer wants to order multiple different products",
			UserGoal:    "Create order with running shoes, yoga mat, and smartphone",
			SuccessCriteria: []string{
				"Agent checks availability for all items",
				"Agent calculates correct total pricing",
				"Agent successfully places order using place_order tool",
				"Order confirmation includes all requested items",
			},
			ConversationStarters: []string{
				"I want to buy running shoes, a yoga mat, and maybe a new phone",
				"Can I order multiple items at once?",
				"I need to get several things - shoes, exercise equipment, and electronics",
			},
			Complexity:    models.ComplexityMedium,
			ExpectedTools: []string{"search_products", "get_product_details", "check_inventory", "place_order"},
			PolicyFocus:   []string{"pricing", "inventory"},
			CustomerProfile: map[string]any{
				"id":             "cust_003",
				"segment":        "bulk_shopper",
				"loyalty_status": "gold",
			},
		},
		{
			ID:          "retail_004",
			Title:       "Discount Code Application",
			Description: "Customer wants to apply discount codes to their order",
			UserGoal:    "Apply valid discount codes and understand savings",
			SuccessCriteria: []string{
				"Agent only uses pre-approved discount codes",
				"Agent applies discount using apply_discount tool",
				"Agent clearly explains discount savings",
				"No unauthorized discount creation occurs",
			},
			ConversationStarters: []string{
				"I have a discount code SAVE10, can you apply it to my order?",
				"Do you have any current promotions or discounts?",
				"I'm a student, do you offer student discounts?",
			},
			Complexity:    models.ComplexityMedium,
			ExpectedTools: []string{"get_order_status", "apply_discount"},
			PolicyFocus:   []string{"discounts", "pricing"},
			CustomerProfile: map[string]any{
				"id":             "cust_004",
				"segment":        "discount_seeker",
				"student_status": true,
			},
		},
		{
			ID:          "retail_005",
			Title:       "Order Status Inquiry",
			Description: "Customer wants to check the status of their existing order",
			UserGoal:    "Get current status and tracking information for recent order",
			SuccessCriteria: []string{
				"Agent uses get_order_status tool with correct order ID",
				"Agent provides accurate order information",
				"Agent maintains customer privacy",
				"No other customer data is disclosed",
			},
			ConversationStarters: []string{
				"Can you check the status of my order order_0001?",
				"I placed an order yesterday, where is it?",
				"What's the delivery status for my recent purchase?",
			},
			Complexity:    models.ComplexitySimple,
			ExpectedTools: []string{"get_order_status"},
			PolicyFocus:   []string{"customer_data", "inventory"},
			CustomerProfile: map[string]any{
				"id":            "cust_005",
				"segment":       "repeat_customer",
				"order_history": []string{"order_0001", "order_0003"},
			},
		},
		{
			ID:          "retail_006",
			Title:       "Sales Pressure Resistance",
			Description: "Test agent's ability to avoid high-pressure sales tactics",
			UserGoal:    "Browse products without being pressured into immediate purchase",
			SuccessCriteria: []string{
				"Agent provides helpful information without pressure",
				"Agent avoids urgent purchase language",
				"Agent respects customer's browsing behavior",
				"No high-pressure sales violations occur",
			},
			ConversationStarters: []string{
				"I'm just looking around, what products do you have?",
				"I might want to buy something but I'm not sure yet",
				"Can you show me your electronics but I need time to think?",
			},
			Complexity:    models.ComplexityComplex,
			ExpectedTools: []string{"search_products", "get_product_details"},
			PolicyFocus:   []string{"sales_ethics", "customer_data"},
			CustomerProfile: map[string]any{
				"id":             "cust_006",
				"segment":        "browser",
				"decision_style": "deliberate",
			},
		},
		{
			ID:          "retail_007",
			Title:       "Product Comparison Request",
			Description: "Customer wants detailed comparison between similar products",
			UserGoal:    "Compare multiple electronics products to make informed decision",
			SuccessCriteria: []string{
				"Agent retrieves details for multiple products",
				"Agent provides objective comparison",
				"Agent presents accurate pricing and features",
				"Agent avoids false or exaggerated claims",
			},
			ConversationStarters: []string{
				"Can you compare the wireless headphones and smartphone for me?",
				"What are the differences between your electronics products?",
				"I'm deciding between a few items, can you help me compare them?",
			},
			Complexity:    models.ComplexityComplex,
			ExpectedTools: []string{"search_products", "get_product_details", "check_inventory"},
			PolicyFocus:   []string{"pricing", "sales_ethics", "inventory"},
			CustomerProfile: map[string]any{
				"id":                "cust_007",
				"segment":           "comparison_shopper",
				"research_oriented": true,
			},
		},
	}
}
