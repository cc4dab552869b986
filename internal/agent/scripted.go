package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/retailbench/retailbench/internal/models"
)

// ScriptedAgent is a deterministic stand-in for a live model. It reacts to
// the latest user message with simple keyword rules: search first, then
// answer from tool results. Used for dry runs, demos and executor tests,
// where network-backed agents would make trials non-reproducible.
type ScriptedAgent struct {
	modelName string
}

// NewScriptedAgent returns a scripted agent reporting the given model name.
func NewScriptedAgent(modelName string) *ScriptedAgent {
	return &ScriptedAgent{modelName: modelName}
}

func (a *ScriptedAgent) ModelName() string { return a.modelName }

// GenerateResponse picks the next scripted action. Tool schemas are
// accepted for interface parity but the script only ever calls the retail
// tools it knows.
func (a *ScriptedAgent) GenerateResponse(ctx context.Context, transcript []models.Message, tools []llms.Tool) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(transcript) == 0 {
		return nil, fmt.Errorf("empty transcript")
	}

	last := transcript[len(transcript)-1]
	if last.Role == models.RoleTool {
		return textResponse(summarizeToolResult(last)), nil
	}

	userText := strings.ToLower(lastUserContent(transcript))
	switch {
	case strings.Contains(userText, "order") && strings.Contains(userText, "#"):
		return toolResponse("get_order_status", map[string]any{
			"order_id": extractOrderID(userText),
		}), nil
	case !toolCalled(transcript, "search_products"):
		return toolResponse("search_products", map[string]any{
			"query": lastUserContent(transcript),
		}), nil
	case strings.Contains(userText, "stock") || strings.Contains(userText, "availab"):
		return toolResponse("check_inventory", map[string]any{
			"product_id": firstFoundProductID(transcript),
		}), nil
	default:
		return textResponse("Happy to help further. The price of each option is listed above, " +
			"and I can pull up full product details, compare features, or place an order " +
			"whenever you are ready. Just tell me which one interests you."), nil
	}
}

func textResponse(content string) *Response {
	return &Response{
		Message:      models.Message{Role: models.RoleAssistant, Content: content},
		FinishReason: "stop",
	}
}

func toolResponse(name string, args map[string]any) *Response {
	call := models.ToolCall{ID: uuid.NewString(), Function: name, Arguments: args}
	return &Response{
		Message: models.Message{
			Role:      models.RoleAssistant,
			ToolCalls: []models.ToolCall{call},
		},
		ToolCalls:    []models.ToolCall{call},
		FinishReason: "tool_calls",
	}
}

func lastUserContent(transcript []models.Message) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == models.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}

func toolCalled(transcript []models.Message, name string) bool {
	for _, m := range transcript {
		if m.Role == models.RoleTool && m.Name == name {
			return true
		}
	}
	return false
}

// extractOrderID pulls the order reference the user quoted, e.g. "#12345".
func extractOrderID(userText string) string {
	for _, token := range strings.Fields(userText) {
		if strings.HasPrefix(token, "#") || strings.HasPrefix(token, "order_") {
			return strings.TrimRight(token, ".,!?")
		}
	}
	return ""
}

// firstFoundProductID returns the id of the first product an earlier search
// returned, so follow-up inventory checks target something real.
func firstFoundProductID(transcript []models.Message) string {
	for _, m := range transcript {
		if m.Role != models.RoleTool || m.Name != "search_products" {
			continue
		}
		payload := decodeToolPayload(m.Content)
		results, _ := payload["results"].([]any)
		if len(results) == 0 {
			continue
		}
		if first, ok := results[0].(map[string]any); ok {
			if id, ok := first["id"].(string); ok {
				return id
			}
		}
	}
	return "prod_001"
}

func decodeToolPayload(content string) map[string]any {
	var result struct {
		Success bool           `json:"success"`
		Payload map[string]any `json:"payload"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil
	}
	return result.Payload
}

// summarizeToolResult turns a tool message back into user-facing prose.
func summarizeToolResult(msg models.Message) string {
	var result struct {
		Success bool           `json:"success"`
		Payload map[string]any `json:"payload"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal([]byte(msg.Content), &result); err != nil || (!result.Success && result.Error == "") {
		return "I hit a snag looking that up. Could you rephrase your request and I will try again?"
	}
	if !result.Success {
		return fmt.Sprintf("I wasn't able to complete that request: %s. "+
			"Could you double-check the details and I will try again?", result.Error)
	}

	if raw, ok := result.Payload["results"].([]any); ok {
		if len(raw) == 0 {
			return "I searched our catalog but nothing matched that description. " +
				"Could you tell me a bit more about what you are looking for, such as a category or price range?"
		}
		var parts []string
		for _, item := range raw {
			p, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := p["name"].(string)
			price, _ := p["price"].(float64)
			parts = append(parts, fmt.Sprintf("the %s at a price of $%.2f", name, price))
		}
		return fmt.Sprintf("I found %d matching option(s): %s. "+
			"I can share more details on any of these or help you place an order.",
			len(raw), strings.Join(parts, ", "))
	}

	if p, ok := result.Payload["product"].(map[string]any); ok {
		name, _ := p["name"].(string)
		price, _ := p["price"].(float64)
		desc, _ := p["description"].(string)
		return fmt.Sprintf("The %s is priced at $%.2f. %s. Would you like me to check anything else?",
			name, price, desc)
	}

	if s, ok := result.Payload["stock"].(map[string]any); ok {
		name, _ := s["name"].(string)
		qty, _ := s["quantity"].(float64)
		if inStock, _ := s["in_stock"].(bool); inStock {
			return fmt.Sprintf("I checked our inventory and the %s is in stock, with %d unit(s) on hand. "+
				"Would you like me to place an order?", name, int(qty))
		}
		return fmt.Sprintf("I checked our inventory and the %s is currently out of stock. "+
			"I can look for a comparable alternative if you would like.", name)
	}

	if o, ok := result.Payload["order"].(map[string]any); ok {
		id, _ := o["order_id"].(string)
		total, _ := o["total_price"].(float64)
		status, _ := o["status"].(string)
		return fmt.Sprintf("Your order %s is %s, with a total price of $%.2f. "+
			"Is there anything else I can help you with?", id, status, total)
	}

	if d, ok := result.Payload["discount_applied"].(map[string]any); ok {
		code, _ := d["code"].(string)
		total, _ := d["new_total"].(float64)
		return fmt.Sprintf("The code %s has been applied. Your new total price is $%.2f.", code, total)
	}

	return "Done. Let me know what else I can help you with, whether that's pricing, product details or an order."
}
