package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/blob"
	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

var (
	ErrMessageNotFound  = domain.NotFound("message not found")
	ErrNotMessageSender = domain.Forbidden("only the sender can delete a message")
	ErrEmptyMessage     = domain.InvalidOperation("message needs content or an attachment")
)

// typingClearTimeout bounds the fire-and-forget typing clear after a
// send; the send itself never waits on it.
const typingClearTimeout = 5 * time.Second

type MessageService struct {
	msgRepo    repository.MessageRepository
	threadRepo repository.ThreadRepository
	blobs      blob.Store
	typing     TypingLedger
	notifier   Notifier
	logger     *logrus.Logger
}

func NewMessageService(
	msgRepo repository.MessageRepository,
	threadRepo repository.ThreadRepository,
	blobs blob.Store,
	typing TypingLedger,
	logger *logrus.Logger,
) *MessageService {
	return &MessageService{
		msgRepo:    msgRepo,
		threadRepo: threadRepo,
		blobs:      blobs,
		typing:     typing,
		logger:     logger,
	}
}

func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// List returns the thread's messages in insertion order. A deleted
// sender renders under a placeholder name and a failed attachment
// resolution leaves the URL empty; neither ever fails the list.
func (s *MessageService) List(ctx context.Context, callerID, threadID uuid.UUID) ([]domain.Message, error) {
	if err := s.requireMember(ctx, threadID, callerID); err != nil {
		return nil, err
	}

	msgs, err := s.msgRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	for i := range msgs {
		if msgs[i].SenderUsername == "" {
			msgs[i].SenderUsername = domain.DeletedUsername
		}
		if msgs[i].AttachmentKey != nil {
			url, err := s.blobs.ResolveReadURL(ctx, *msgs[i].AttachmentKey)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"message_id": msgs[i].ID,
					"error":      err,
				}).Warn("failed to resolve attachment url")
				continue
			}
			msgs[i].AttachmentURL = url
		}
	}
	return msgs, nil
}

// Create appends a message to the thread and schedules the sender's
// typing marker for clearing. The clear is fire-and-forget; the message
// is already durable when Create returns.
func (s *MessageService) Create(ctx context.Context, sender *domain.User, threadID uuid.UUID, content string, attachmentKey *string) (*domain.Message, error) {
	if err := s.requireMember(ctx, threadID, sender.ID); err != nil {
		return nil, err
	}
	if content == "" && attachmentKey == nil {
		return nil, ErrEmptyMessage
	}

	msg := &domain.Message{
		ID:            uuid.New(),
		ThreadID:      threadID,
		SenderID:      sender.ID,
		Content:       content,
		AttachmentKey: attachmentKey,
		CreatedAt:     time.Now(),

		SenderUsername: sender.Username,
		SenderImageURL: sender.ImageURL,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	go func() {
		clearCtx, cancel := context.WithTimeout(context.Background(), typingClearTimeout)
		defer cancel()
		if err := s.typing.Clear(clearCtx, threadID, sender.ID); err != nil {
			s.logger.WithFields(logrus.Fields{
				"thread_id": threadID,
				"user_id":   sender.ID,
				"error":     err,
			}).Warn("failed to clear typing marker after send")
		}
	}()

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg)
	}

	return msg, nil
}

// Remove deletes the caller's own message. The attachment blob, if any,
// is released best effort: a blob-store failure is logged, never
// surfaced.
func (s *MessageService) Remove(ctx context.Context, callerID, messageID uuid.UUID) error {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("looking up message: %w", err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != callerID {
		return ErrNotMessageSender
	}

	if err := s.msgRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	if msg.AttachmentKey != nil {
		if err := s.blobs.Release(ctx, *msg.AttachmentKey); err != nil {
			s.logger.WithFields(logrus.Fields{
				"message_id": messageID,
				"error":      err,
			}).Warn("failed to release attachment blob")
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.ThreadID, messageID)
	}

	return nil
}

// GenerateUploadTarget hands out a one-time write destination. The key
// only means something once attached to a created message.
func (s *MessageService) GenerateUploadTarget(ctx context.Context) (*blob.UploadTarget, error) {
	target, err := s.blobs.GenerateUploadTarget(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating upload target: %w", err)
	}
	return target, nil
}

func (s *MessageService) requireMember(ctx context.Context, threadID, userID uuid.UUID) error {
	member, err := s.threadRepo.IsMember(ctx, threadID, userID)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return ErrNotThreadMember
	}
	return nil
}
