package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/pkg/monitoring"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// MessageService handles direct messaging between profiles
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// ListForUser retrieves messages where the user is either the sender or
// the recipient, newest first, capped at limit.
func (s *MessageService) ListForUser(ctx context.Context, userID string, limit int) ([]models.MessageResponse, error) {
	if limit <= 0 {
		limit = 20
	}

	var messages []models.Message
	start := time.Now()
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	monitoring.RecordDBCall(ctx, "messages", "list", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("list messages", err)
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, toMessageResponse(message))
	}
	return responses, nil
}

// Send creates a message from sender to the requested recipient. The
// recipient must be an existing profile.
func (s *MessageService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, apierrors.ValidationError("MISSING_CONTENT", "Message content is required")
	}
	if req.RecipientID == "" {
		return nil, apierrors.ValidationError("MISSING_RECIPIENT", "Recipient is required")
	}

	var recipient models.Profile
	if err := s.db.WithContext(ctx).First(&recipient, "profile_id = ?", req.RecipientID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "recipient", "get recipient")
	}

	message := models.Message{
		MessageID:   "msg_" + uuid.New().String(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Subject:     req.Subject,
		Content:     req.Content,
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Create(&message).Error
	monitoring.RecordDBCall(ctx, "messages", "create", time.Since(start), err)
	if err != nil {
		return nil, apierrors.DatabaseError("send message", err)
	}

	message.Recipient = recipient
	response := toMessageResponse(message)
	return &response, nil
}

// MarkRead flags a message as read. Only the recipient may do this.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, "message_id = ?", messageID).Error; err != nil {
		return apierrors.HandleDatabaseError(err, "message", "get message")
	}
	if message.RecipientID != userID {
		return apierrors.ForbiddenError("Only the recipient can mark a message as read")
	}
	if message.IsRead {
		return nil
	}

	message.IsRead = true
	if err := s.db.WithContext(ctx).Save(&message).Error; err != nil {
		return apierrors.DatabaseError("mark message read", err)
	}
	return nil
}

func toMessageResponse(message models.Message) models.MessageResponse {
	return models.MessageResponse{
		MessageID:     message.MessageID,
		SenderID:      message.SenderID,
		SenderName:    message.Sender.FullName,
		RecipientID:   message.RecipientID,
		RecipientName: message.Recipient.FullName,
		Subject:       message.Subject,
		Content:       message.Content,
		IsRead:        message.IsRead,
		CreatedAt:     message.CreatedAt.Format(time.RFC3339),
	}
}
