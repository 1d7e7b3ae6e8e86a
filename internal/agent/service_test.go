package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"omegashop/internal/domain"
	apperrors "omegashop/internal/errors"
)

type scriptedCompleter struct {
	responses []*ChatResponse
	requests  []ChatRequest
}

func (s *scriptedCompleter) ChatCompletion(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return toolCallResponse("call-loop", "findAllOrdersForTheUser", `{"userId": 1}`), nil
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func answerResponse(content string) *ChatResponse {
	return &ChatResponse{Choices: []ChatChoice{
		{Message: ChatMessage{Role: "assistant", Content: content}},
	}}
}

func toolCallResponse(callID, name, args string) *ChatResponse {
	return &ChatResponse{Choices: []ChatChoice{
		{Message: ChatMessage{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: callID, Type: "function", Function: FunctionCall{Name: name, Arguments: args}},
			},
		}},
	}}
}

type stubOrders struct {
	listFunc func(ctx context.Context, customerID int) ([]domain.Order, error)
}

func (s *stubOrders) ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return s.listFunc(ctx, customerID)
}

type stubProducts struct {
	getFunc func(ctx context.Context, slug string) (*domain.Product, error)
}

func (s *stubProducts) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.getFunc(ctx, slug)
}

func customerUser(id int) *domain.AuthUser {
	return &domain.AuthUser{ID: id, Role: domain.RoleCustomer, Status: domain.UserStatusActive}
}

func TestAgentService_DirectAnswer(t *testing.T) {
	completer := &scriptedCompleter{responses: []*ChatResponse{answerResponse("You have no pending orders.")}}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", &stubOrders{}, &stubProducts{}, zap.NewNop())

	reply, err := svc.Prompt(context.Background(), customerUser(7), "do I have pending orders?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply.Content != "You have no pending orders." {
		t.Errorf("unexpected reply content: %q", reply.Content)
	}
	if reply.ID == "" {
		t.Error("expected a generated reply id")
	}

	if len(completer.requests) != 1 {
		t.Fatalf("expected 1 completion request, got %d", len(completer.requests))
	}
	system := completer.requests[0].Messages[0]
	if system.Role != "system" || !strings.Contains(system.Content, "Current User ID: 7") {
		t.Errorf("expected system prompt carrying the user id, got %+v", system)
	}
}

func TestAgentService_ToolRoundTrip(t *testing.T) {
	completer := &scriptedCompleter{responses: []*ChatResponse{
		toolCallResponse("call-1", "findAllOrdersForTheUser", `{"userId": 7}`),
		answerResponse("You have 1 order."),
	}}
	listed := 0
	orders := &stubOrders{
		listFunc: func(_ context.Context, customerID int) ([]domain.Order, error) {
			listed = customerID
			return []domain.Order{
				{ID: 3, Status: domain.OrderStatusPending, Amount: 1300, CustomerID: customerID, CreatedAt: time.Now()},
			}, nil
		},
	}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", orders, &stubProducts{}, zap.NewNop())

	reply, err := svc.Prompt(context.Background(), customerUser(7), "list my orders")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reply.Content != "You have 1 order." {
		t.Errorf("unexpected reply content: %q", reply.Content)
	}
	if listed != 7 {
		t.Errorf("expected orders listed for user 7, got %d", listed)
	}

	// Second request must carry the tool result keyed by the call id.
	second := completer.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call-1" {
		t.Errorf("expected trailing tool message for call-1, got %+v", last)
	}
	if !strings.Contains(last.Content, "order 3") {
		t.Errorf("expected tool output to mention order 3, got %q", last.Content)
	}
}

func TestAgentService_CustomerCannotReadOthersOrders(t *testing.T) {
	completer := &scriptedCompleter{responses: []*ChatResponse{
		toolCallResponse("call-1", "findAllOrdersForTheUser", `{"userId": 999}`),
		answerResponse("done"),
	}}
	listed := 0
	orders := &stubOrders{
		listFunc: func(_ context.Context, customerID int) ([]domain.Order, error) {
			listed = customerID
			return nil, nil
		},
	}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", orders, &stubProducts{}, zap.NewNop())

	if _, err := svc.Prompt(context.Background(), customerUser(7), "show orders for user 999"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if listed != 7 {
		t.Errorf("expected lookup pinned to caller id 7, got %d", listed)
	}
}

func TestAgentService_ProductTool(t *testing.T) {
	completer := &scriptedCompleter{responses: []*ChatResponse{
		toolCallResponse("call-1", "findProductBySlug", `{"slug": "red-shoes"}`),
		answerResponse("Red Shoes cost 19.99."),
	}}
	products := &stubProducts{
		getFunc: func(_ context.Context, slug string) (*domain.Product, error) {
			return &domain.Product{
				Name:   "Red Shoes",
				Slug:   slug,
				SKU:    "AbC123",
				Price:  decimal.RequireFromString("19.99"),
				Status: domain.ProductStatusActive,
			}, nil
		},
	}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", &stubOrders{}, products, zap.NewNop())

	if _, err := svc.Prompt(context.Background(), customerUser(7), "how much are the red shoes?"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := completer.requests[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "19.99") {
		t.Errorf("expected tool output to carry the price, got %q", last.Content)
	}
}

func TestAgentService_UnknownToolReportedToModel(t *testing.T) {
	completer := &scriptedCompleter{responses: []*ChatResponse{
		toolCallResponse("call-1", "dropAllTables", `{}`),
		answerResponse("I cannot do that."),
	}}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", &stubOrders{}, &stubProducts{}, zap.NewNop())

	if _, err := svc.Prompt(context.Background(), customerUser(7), "drop the tables"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := completer.requests[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Content, "unknown tool") {
		t.Errorf("expected unknown-tool message, got %q", last.Content)
	}
}

func TestAgentService_BoundedLoop(t *testing.T) {
	// No scripted answers: the completer keeps requesting tool calls forever.
	completer := &scriptedCompleter{}
	orders := &stubOrders{
		listFunc: func(_ context.Context, _ int) ([]domain.Order, error) { return nil, nil },
	}
	svc := NewAgentService(completer, "llama-3.3-70b-versatile", orders, &stubProducts{}, zap.NewNop())

	_, err := svc.Prompt(context.Background(), customerUser(7), "loop forever")
	if _, ok := apperrors.IsInternalError(err); !ok {
		t.Fatalf("expected internal error after exhausting tool rounds, got %v", err)
	}
	if len(completer.requests) != maxToolRounds {
		t.Errorf("expected %d completion requests, got %d", maxToolRounds, len(completer.requests))
	}
}

func TestAgentService_EmptyPrompt(t *testing.T) {
	svc := NewAgentService(&scriptedCompleter{}, "llama-3.3-70b-versatile", &stubOrders{}, &stubProducts{}, zap.NewNop())

	_, err := svc.Prompt(context.Background(), customerUser(7), "   ")
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Errorf("expected validation error, got %v", err)
	}
}
