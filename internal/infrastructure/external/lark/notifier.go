package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/domain/entity"
)

const receiveIDTypeChat = "chat_id"

// MessageSender sends raw Lark messages
type MessageSender interface {
	SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// Notifier posts new bill submissions to the approvers' chat
type Notifier struct {
	sender MessageSender
	chatID string
	logger *zap.Logger
}

// NewNotifier creates a notifier posting to chatID
func NewNotifier(sender MessageSender, chatID string, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// NotifyBillSubmitted posts a text summary of the bill
func (n *Notifier) NotifyBillSubmitted(ctx context.Context, bill *entity.Bill) error {
	if bill == nil {
		return fmt.Errorf("bill cannot be nil")
	}

	content, err := textContent(BillSubmittedText(bill))
	if err != nil {
		return err
	}

	if _, err := n.sender.SendMessage(ctx, receiveIDTypeChat, n.chatID, "text", content); err != nil {
		return fmt.Errorf("failed to notify bill %s: %w", bill.ID, err)
	}

	n.logger.Debug("Bill submission notified",
		zap.String("bill_id", bill.ID),
		zap.String("chat_id", n.chatID))
	return nil
}

// BillSubmittedText renders the notice sent for a pending bill
func BillSubmittedText(bill *entity.Bill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouvelle note de frais de %s\n", bill.Email)
	fmt.Fprintf(&b, "%s - %s\n", bill.Type, bill.Name)
	fmt.Fprintf(&b, "Date: %s\n", bill.Date)
	fmt.Fprintf(&b, "Montant: %s\n", bill.FormattedAmount())
	fmt.Fprintf(&b, "Statut: %s", bill.Status.Label())
	if bill.Commentary != "" {
		fmt.Fprintf(&b, "\nCommentaire: %s", bill.Commentary)
	}
	return b.String()
}

func textContent(text string) (string, error) {
	data, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal message content: %w", err)
	}
	return string(data), nil
}

// NoopNotifier is used when Lark is not configured
type NoopNotifier struct{}

// NotifyBillSubmitted does nothing
func (NoopNotifier) NotifyBillSubmitted(context.Context, *entity.Bill) error {
	return nil
}

// Verify interface compliance
var (
	_ port.BillNotifier = (*Notifier)(nil)
	_ port.BillNotifier = NoopNotifier{}
	_ MessageSender     = (*SDKClient)(nil)
)
