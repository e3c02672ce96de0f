package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/worldofchami/shopassist/pkg/tools"
	"go.uber.org/zap"
)

// agentRunner runs an agent on one input and returns its final text.
type agentRunner func(ctx context.Context, agent *agents.Agent, input string) (string, error)

func runAgent(ctx context.Context, agent *agents.Agent, input string) (string, error) {
	result, err := agents.Run(ctx, agent, input)
	if err != nil {
		return "", err
	}
	if out, ok := result.FinalOutput.(string); ok {
		return out, nil
	}
	return fmt.Sprint(result.FinalOutput), nil
}

// Assistant answers customer messages with a tool-equipped agent, keeping
// conversation history between turns.
type Assistant struct {
	tools   *tools.Service
	history *MessageHistory
	sender  messageSender
	run     agentRunner
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// conversation is the per-turn state the conversation tools act on.
type conversation struct {
	id        string
	recipient string
	assistant *Assistant
}

type sendMessageParams struct {
	Message string `json:"message"`
}

type rememberCustomerParams struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// sendMessageTool lets the agent push an extra message to the customer, one
// per recommended product for example.
func sendMessageTool(conv *conversation) agents.FunctionTool {
	return agents.NewFunctionTool(
		"send_message",
		"Send a separate WhatsApp/SMS message to the customer. Use it to send each recommended product as its own short message.",
		func(ctx context.Context, params sendMessageParams) (string, error) {
			a := conv.assistant
			if a.sender == nil || !a.sender.IsConfigured() {
				return "", fmt.Errorf("messaging not available - Twilio not configured")
			}
			if strings.TrimSpace(params.Message) == "" {
				return "", fmt.Errorf("message is required")
			}
			if err := a.sender.SendMessage(conv.recipient, params.Message); err != nil {
				return "", fmt.Errorf("failed to send message: %w", err)
			}
			a.record(ctx, conv.id, "assistant", params.Message)
			return "Message sent", nil
		},
	)
}

// rememberCustomerTool lets the agent save what the customer tells it about
// themselves, so later order questions can use their email.
func rememberCustomerTool(conv *conversation) agents.FunctionTool {
	return agents.NewFunctionTool(
		"remember_customer_detail",
		"Save a customer detail for later turns. Valid fields are: name, email, shipping_address. Use this whenever the customer shares one of them.",
		func(ctx context.Context, params rememberCustomerParams) (string, error) {
			field := strings.TrimSpace(strings.ToLower(params.Field))
			if err := conv.assistant.history.UpdateCustomerField(ctx, conv.id, field, strings.TrimSpace(params.Value)); err != nil {
				return "", err
			}
			if field == "name" {
				return fmt.Sprintf("Got it! Nice to meet you, %s! 😊", params.Value), nil
			}
			return fmt.Sprintf("Saved your %s.", strings.ReplaceAll(field, "_", " ")), nil
		},
	)
}

// Reply handles one inbound message. recipient is the number replies go to
// and is empty for plain HTTP chat.
func (a *Assistant) Reply(ctx context.Context, conversationID, recipient, message string) (string, error) {
	a.record(ctx, conversationID, "user", message)

	customer, err := a.history.GetOrCreateCustomer(ctx, conversationID)
	if err != nil {
		a.logger.Warn("failed to load customer", zap.String("conversation", conversationID), zap.Error(err))
		customer = &Customer{ConversationID: conversationID}
	}

	prompt := message
	historyContext, err := a.history.GetHistoryAsContext(ctx, conversationID)
	if err != nil {
		a.logger.Warn("failed to load history", zap.String("conversation", conversationID), zap.Error(err))
	} else if historyContext != "" {
		prompt = message + historyContext
	}

	conv := &conversation{id: conversationID, recipient: recipient, assistant: a}
	agentTools := a.tools.AgentTools()
	agentTools = append(agentTools, rememberCustomerTool(conv))
	if recipient != "" {
		agentTools = append(agentTools, sendMessageTool(conv))
	}

	agent := agents.New("ShoppingAssistant").
		WithInstructions(instructions(*customer, recipient != "")).
		WithModel(a.model).
		WithTools(agentTools...)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	response, err := a.run(ctx, agent, prompt)
	if err != nil {
		return "", fmt.Errorf("agent error: %w", err)
	}
	a.logger.Info("agent replied",
		zap.String("conversation", conversationID),
		zap.Duration("duration", time.Since(start)),
	)

	a.record(ctx, conversationID, "assistant", response)
	return response, nil
}

func (a *Assistant) record(ctx context.Context, conversationID, role, content string) {
	if err := a.history.AddMessage(ctx, conversationID, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}); err != nil {
		a.logger.Warn("failed to store message",
			zap.String("conversation", conversationID),
			zap.String("role", role),
			zap.Error(err),
		)
	}
}

// instructions is the system prompt for the shopping assistant.
func instructions(c Customer, messaging bool) string {
	var known strings.Builder
	if c.Name != "" {
		fmt.Fprintf(&known, "- Name: %s\n", c.Name)
	} else {
		known.WriteString("- Name: NOT SET\n")
	}
	if c.Email != "" {
		fmt.Fprintf(&known, "- Email: %s (use it for order lookups)\n", c.Email)
	} else {
		known.WriteString("- Email: NOT SET (ask for it before any order lookup)\n")
	}
	if c.ShippingAddress != "" {
		known.WriteString("- Shipping address: saved\n")
	} else {
		known.WriteString("- Shipping address: NOT SET (only needed when placing an order)\n")
	}

	channel := "Replies are shown in a chat window."
	if messaging {
		channel = "You are chatting over WhatsApp/SMS. When you recommend products, send each one (at most 3) as its own message with send_message, then give a short summary."
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are a helpful and friendly shopping assistant for an e-commerce platform.
Your role is to:
- Help customers find products they're looking for
- Provide detailed product information and recommendations
- Assist with order tracking, order history and cancellations
- Offer personalized suggestions based on customer preferences
- Always offer additional assistance after answering questions

You have access to the following tools:
1. search_products - Search for products by keywords or category
2. get_product_details - Get detailed information about a specific product
3. get_recommendations - Get personalized product recommendations within a budget
4. check_order_status - Check order status and tracking information
5. get_order_history - List a customer's past orders
6. cancel_order - Cancel an order that has not shipped
7. create_order - Place a new order
8. remember_customer_detail - Save the customer's name, email or shipping address

WHAT WE KNOW ABOUT THE CUSTOMER:
%s
%s

Always use the appropriate tool to get accurate, up-to-date information rather than making assumptions about products, prices, availability or orders.
Never reveal an order to someone whose email does not match it.
Be conversational and helpful, and always try to understand what the customer is really looking for.
`, known.String(), channel))
}
