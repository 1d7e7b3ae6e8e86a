package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
)

// maxToolRounds bounds the tool-calling loop so a model that keeps requesting
// tools cannot spin forever.
const maxToolRounds = 5

type OrderLister interface {
	ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error)
}

type ProductFinder interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

// Reply is the assistant's final answer with a stable id for clients.
type Reply struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AgentService struct {
	completer ChatCompleter
	model     string
	orders    OrderLister
	products  ProductFinder
	logger    *zap.Logger
}

func NewAgentService(completer ChatCompleter, model string, orders OrderLister, products ProductFinder, logger *zap.Logger) *AgentService {
	return &AgentService{
		completer: completer,
		model:     model,
		orders:    orders,
		products:  products,
		logger:    logger,
	}
}

func systemPrompt(userID int) string {
	return fmt.Sprintf(`You are an AI assistant that helps people manage their orders, products and users in the Omega Shop.

###
Current User ID: %d
###
`, userID)
}

func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        "findAllOrdersForTheUser",
				Description: "Find all orders for a specific user by their user ID.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"userId": {"type": "number", "description": "The ID of the user."}
					},
					"required": ["userId"]
				}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDefinition{
				Name:        "findProductBySlug",
				Description: "Look up a product in the catalog by its URL slug.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"slug": {"type": "string", "description": "The product slug."}
					},
					"required": ["slug"]
				}`),
			},
		},
	}
}

// Prompt runs the tool-calling loop: the model either answers or requests
// tool calls, whose results are appended and fed back until it answers.
func (s *AgentService) Prompt(ctx context.Context, user *domain.AuthUser, prompt string) (*Reply, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.NewValidationError("prompt must not be empty")
	}

	messages := []ChatMessage{
		{Role: "system", Content: systemPrompt(user.ID)},
		{Role: "user", Content: prompt},
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := s.completer.ChatCompletion(ctx, ChatRequest{
			Model:       s.model,
			Messages:    messages,
			Temperature: 0.5,
			Tools:       toolDefinitions(),
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.NewInternalError("model returned no choices", nil)
		}

		choice := resp.Choices[0].Message
		messages = append(messages, choice)

		if len(choice.ToolCalls) == 0 {
			return &Reply{
				ID:      uuid.New().String(),
				Role:    choice.Role,
				Content: choice.Content,
			}, nil
		}

		for _, call := range choice.ToolCalls {
			result := s.executeTool(ctx, user, call)
			messages = append(messages, ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return nil, errors.NewInternalError("model did not answer within the tool-call budget", nil)
}

// executeTool never surfaces an error to the caller: failures are reported
// back to the model as tool output so it can recover or apologize.
func (s *AgentService) executeTool(ctx context.Context, user *domain.AuthUser, call ToolCall) string {
	switch call.Function.Name {
	case "findAllOrdersForTheUser":
		return s.runListOrders(ctx, user, call.Function.Arguments)
	case "findProductBySlug":
		return s.runFindProduct(ctx, call.Function.Arguments)
	default:
		s.logger.Warn("model requested unknown tool", zap.String("tool", call.Function.Name))
		return fmt.Sprintf("unknown tool %q", call.Function.Name)
	}
}

func (s *AgentService) runListOrders(ctx context.Context, user *domain.AuthUser, rawArgs string) string {
	var args struct {
		UserID int `json:"userId"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return fmt.Sprintf("invalid arguments: %v", err)
	}

	// Non-admins may only inspect their own orders, whatever id the model asked for.
	if user.Role != domain.RoleAdmin && user.Role != domain.RoleSuperAdmin {
		args.UserID = user.ID
	}

	orders, err := s.orders.ListByCustomer(ctx, args.UserID)
	if err != nil {
		return fmt.Sprintf("could not list orders: %v", err)
	}
	if len(orders) == 0 {
		return "The user has no orders."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The user has %d order(s):\n", len(orders))
	for _, order := range orders {
		fmt.Fprintf(&b, "- order %d: status %s, amount %d minor units, placed %s\n",
			order.ID, order.Status, order.Amount, order.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}

func (s *AgentService) runFindProduct(ctx context.Context, rawArgs string) string {
	var args struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return fmt.Sprintf("invalid arguments: %v", err)
	}

	product, err := s.products.GetBySlug(ctx, args.Slug)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return fmt.Sprintf("No product exists with slug %q.", args.Slug)
		}
		return fmt.Sprintf("could not look up product: %v", err)
	}

	return fmt.Sprintf("Product %q (slug %s, sku %s): price %s, status %s.",
		product.Name, product.Slug, product.SKU, product.Price.StringFixed(2), product.Status)
}
