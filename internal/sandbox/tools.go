package sandbox

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// RetailRegistry returns a registry with all six retail tools bound to the
// given store.
func RetailRegistry(store *Store) *Registry {
	r := NewRegistry()
	for _, h := range []Handler{
		&searchTool{store},
		&productDetailsTool{store},
		&inventoryTool{store},
		&placeOrderTool{store},
		&orderStatusTool{store},
		&discountTool{store},
	} {
		if err := r.Register(h); err != nil {
			// Handler names are compile-time constants.
			panic(err)
		}
	}
	return r
}

func functionTool(name, description string, params map[string]any) llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

type searchTool struct{ store *Store }

func (t *searchTool) Name() string { return "search_products" }

func (t *searchTool) Definition() llms.Tool {
	return functionTool("search_products",
		"Search for products in the catalog by name, description, or category",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query for product name or description",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Optional category filter (Electronics, Footwear, Appliances, Fitness)",
				},
			},
			"required": []string{"query"},
		})
}

func (t *searchTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	results := t.store.Search(stringArg(args, "query"), stringArg(args, "category"))
	return map[string]any{
		"results": results,
		"count":   len(results),
	}, nil
}

type productDetailsTool struct{ store *Store }

func (t *productDetailsTool) Name() string { return "get_product_details" }

func (t *productDetailsTool) Definition() llms.Tool {
	return functionTool("get_product_details",
		"Get detailed information about a specific product",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_id": map[string]any{
					"type":        "string",
					"description": "Unique product identifier",
				},
			},
			"required": []string{"product_id"},
		})
}

func (t *productDetailsTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	p, err := t.store.GetProduct(stringArg(args, "product_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"product": p}, nil
}

type inventoryTool struct{ store *Store }

func (t *inventoryTool) Name() string { return "check_inventory" }

func (t *inventoryTool) Definition() llms.Tool {
	return functionTool("check_inventory",
		"Check inventory levels and availability for a product",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_id": map[string]any{
					"type":        "string",
					"description": "Unique product identifier",
				},
			},
			"required": []string{"product_id"},
		})
}

func (t *inventoryTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	info, err := t.store.CheckStock(stringArg(args, "product_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"stock": info}, nil
}

type placeOrderTool struct{ store *Store }

func (t *placeOrderTool) Name() string { return "place_order" }

func (t *placeOrderTool) Definition() llms.Tool {
	return functionTool("place_order",
		"Place an order for one or more items",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{
					"type":        "string",
					"description": "Unique customer identifier",
				},
				"items": map[string]any{
					"type":        "array",
					"description": "List of items to order",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"product_id": map[string]any{"type": "string"},
							"quantity":   map[string]any{"type": "integer", "minimum": 1},
						},
						"required": []string{"product_id", "quantity"},
					},
				},
			},
			"required": []string{"customer_id", "items"},
		})
}

func (t *placeOrderTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	rawItems, _ := args["items"].([]any)
	lines := make([]OrderLine, 0, len(rawItems))
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed order item: %v", raw)
		}
		qty := 1
		switch q := item["quantity"].(type) {
		case float64:
			qty = int(q)
		case int:
			qty = q
		}
		lines = append(lines, OrderLine{
			ProductID: stringArg(item, "product_id"),
			Quantity:  qty,
		})
	}

	order, err := t.store.CreateOrder(stringArg(args, "customer_id"), lines)
	if err != nil {
		return nil, err
	}
	return map[string]any{"order": order}, nil
}

type orderStatusTool struct{ store *Store }

func (t *orderStatusTool) Name() string { return "get_order_status" }

func (t *orderStatusTool) Definition() llms.Tool {
	return functionTool("get_order_status",
		"Get the status and details of an existing order",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "Unique order identifier",
				},
			},
			"required": []string{"order_id"},
		})
}

func (t *orderStatusTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	order, err := t.store.GetOrder(stringArg(args, "order_id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"order": order}, nil
}

type discountTool struct{ store *Store }

func (t *discountTool) Name() string { return "apply_discount" }

func (t *discountTool) Definition() llms.Tool {
	return functionTool("apply_discount",
		"Apply a discount code to an existing order",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"order_id": map[string]any{
					"type":        "string",
					"description": "Unique order identifier",
				},
				"discount_code": map[string]any{
					"type":        "string",
					"description": "Discount code to apply",
				},
			},
			"required": []string{"order_id", "discount_code"},
		})
}

func (t *discountTool) Invoke(_ context.Context, args map[string]any) (map[string]any, error) {
	result, err := t.store.ApplyDiscount(stringArg(args, "order_id"), stringArg(args, "discount_code"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"discount_applied": result}, nil
}
