package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type MessageService struct {
	app      core.App
	notifier Publisher
}

func NewMessageService(app core.App, notifier Publisher) *MessageService {
	return &MessageService{app: app, notifier: notifier}
}

// Send persists a buyer/seller message and pushes a realtime notification to
// the recipient's personal channel.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, adID, body string) (*core.Record, error) {
	if body == "" {
		return nil, fmt.Errorf("sendMessage: empty body")
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("sendMessage: cannot message yourself")
	}

	collection, err := s.app.FindCollectionByNameOrId("messages")
	if err != nil {
		return nil, fmt.Errorf("sendMessage: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("sender", senderID)
	record.Set("recipient", recipientID)
	record.Set("ad", adID)
	record.Set("body", body)
	record.Set("read", false)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("sendMessage: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Publish(fmt.Sprintf("user-%s", recipientID), map[string]any{
			"type":       "message",
			"message_id": record.Id,
			"sender":     senderID,
			"ad":         adID,
		})
	}

	return record, nil
}

// Conversation lists messages between the user and a peer about one ad,
// oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID, adID string) ([]*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"messages",
		"ad = {:ad} && ((sender = {:user} && recipient = {:peer}) || (sender = {:peer} && recipient = {:user}))",
		"created",
		200,
		0,
		dbx.Params{"ad": adID, "user": userID, "peer": peerID},
	)
	if err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	return records, nil
}

// Inbox lists the user's received messages, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string, limit, offset int) ([]*core.Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	records, err := s.app.FindRecordsByFilter(
		"messages",
		"recipient = {:user}",
		"-created",
		limit,
		offset,
		dbx.Params{"user": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("inbox: %w", err)
	}
	return records, nil
}

// MarkRead flags a received message as read. Only the recipient may do so.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	record, err := s.app.FindRecordById("messages", messageID)
	if err != nil {
		return fmt.Errorf("markRead: %s: %w", messageID, err)
	}

	if record.GetString("recipient") != userID {
		return fmt.Errorf("markRead: %s: not the recipient", messageID)
	}

	record.Set("read", true)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("markRead: %s: %w", messageID, err)
	}

	return nil
}
