package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apierrors "github.com/hariram-suresh/loom-harmony/pkg/errors"
	"github.com/hariram-suresh/loom-harmony/v1/models"
)

func createMessage(t *testing.T, db *gorm.DB, id, senderID, recipientID string, createdAt time.Time) {
	message := models.Message{
		MessageID:   id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     "Message body " + id,
	}
	assert.NoError(t, db.Create(&message).Error)
	// The create hook stamps its own time; pin it for ordering assertions.
	assert.NoError(t, db.Model(&models.Message{}).
		Where("message_id = ?", id).
		UpdateColumn("created_at", createdAt).Error)
}

func TestMessageService_ListForUser(t *testing.T) {
	db := RequireTestDB(t)
	service := NewMessageService(db)
	createProfile(t, db, "user_a", models.RoleWeaver)
	createProfile(t, db, "user_b", models.RoleSocietyAdmin)
	createProfile(t, db, "user_c", models.RoleBuyer)

	base := time.Now()
	createMessage(t, db, "msg_1", "user_a", "user_b", base.Add(-2*time.Hour))
	createMessage(t, db, "msg_2", "user_b", "user_a", base.Add(-time.Hour))
	createMessage(t, db, "msg_3", "user_c", "user_b", base)

	t.Run("List_IncludesSentAndReceived", func(t *testing.T) {
		messages, err := service.ListForUser(context.Background(), "user_a", 20)

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, "msg_2", messages[0].MessageID)
		assert.Equal(t, "msg_1", messages[1].MessageID)
	})

	t.Run("List_RespectsLimit", func(t *testing.T) {
		messages, err := service.ListForUser(context.Background(), "user_b", 2)

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.Equal(t, "msg_3", messages[0].MessageID)
	})

	t.Run("List_DefaultLimitWhenNonPositive", func(t *testing.T) {
		messages, err := service.ListForUser(context.Background(), "user_b", 0)

		assert.NoError(t, err)
		assert.Len(t, messages, 3)
	})
}

func TestMessageService_Send(t *testing.T) {
	db := RequireTestDB(t)
	service := NewMessageService(db)
	createProfile(t, db, "user_a", models.RoleWeaver)
	createProfile(t, db, "user_b", models.RoleSocietyAdmin)

	t.Run("Send_Success", func(t *testing.T) {
		message, err := service.Send(context.Background(), "user_a", &models.SendMessageRequest{
			RecipientID: "user_b",
			Subject:     StringPtr("Yarn delivery"),
			Content:     "The yarn batch arrived today.",
		})

		assert.NoError(t, err)
		assert.Contains(t, message.MessageID, "msg_")
		assert.Equal(t, "user_a", message.SenderID)
		assert.Equal(t, "Test User user_b", message.RecipientName)
		assert.False(t, message.IsRead)
	})

	t.Run("Send_BlankContent_Validation", func(t *testing.T) {
		_, err := service.Send(context.Background(), "user_a", &models.SendMessageRequest{
			RecipientID: "user_b",
			Content:     "   ",
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("Send_MissingRecipient_Validation", func(t *testing.T) {
		_, err := service.Send(context.Background(), "user_a", &models.SendMessageRequest{
			Content: "Hello",
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("Send_UnknownRecipient_NotFound", func(t *testing.T) {
		_, err := service.Send(context.Background(), "user_a", &models.SendMessageRequest{
			RecipientID: "user_missing",
			Content:     "Hello",
		})

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeNotFound, apiErr.Type)
	})
}

func TestMessageService_MarkRead(t *testing.T) {
	db := RequireTestDB(t)
	service := NewMessageService(db)
	createProfile(t, db, "user_a", models.RoleWeaver)
	createProfile(t, db, "user_b", models.RoleSocietyAdmin)
	createMessage(t, db, "msg_1", "user_a", "user_b", time.Now())

	t.Run("MarkRead_RecipientOnly", func(t *testing.T) {
		err := service.MarkRead(context.Background(), "user_a", "msg_1")

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeForbidden, apiErr.Type)
	})

	t.Run("MarkRead_Success", func(t *testing.T) {
		err := service.MarkRead(context.Background(), "user_b", "msg_1")

		assert.NoError(t, err)

		var stored models.Message
		assert.NoError(t, db.First(&stored, "message_id = ?", "msg_1").Error)
		assert.True(t, stored.IsRead)
	})

	t.Run("MarkRead_Idempotent", func(t *testing.T) {
		err := service.MarkRead(context.Background(), "user_b", "msg_1")

		assert.NoError(t, err)
	})

	t.Run("MarkRead_UnknownMessage_NotFound", func(t *testing.T) {
		err := service.MarkRead(context.Background(), "user_b", "msg_missing")

		assert.Error(t, err)
		apiErr := apierrors.GetAPIError(err)
		assert.Equal(t, apierrors.ErrorTypeNotFound, apiErr.Type)
	})
}
