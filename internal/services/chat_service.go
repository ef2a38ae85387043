// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uniguru/uniguru-server/internal/domain"
	chatrepo "github.com/uniguru/uniguru-server/internal/repository/chat"
	messagerepo "github.com/uniguru/uniguru-server/internal/repository/message"
	"github.com/uniguru/uniguru-server/internal/services/ai"
	chatservice "github.com/uniguru/uniguru-server/internal/services/chat"
)

// SendResult is the outcome of one chat turn: the persisted user
// message, the guru's reply, and the chat after stat recomputation.
type SendResult struct {
	Chat        *domain.Chat
	UserMessage *domain.Message
	Reply       *domain.Message
}

// ChatService owns the chat aggregate and its message lifecycle: stat
// recomputation, auto-titling, context-window selection, and the
// ownership/sharing rules on every access.
type ChatService struct {
	config      *chatservice.Config
	chatRepo    chatrepo.ChatRepository
	messageRepo messagerepo.MessageRepository
	guruService *GuruService
	aiProvider  ai.CompletionProvider
	logger      Logger
}

func NewChatService(
	chatRepo chatrepo.ChatRepository,
	messageRepo messagerepo.MessageRepository,
	guruService *GuruService,
	aiProvider ai.CompletionProvider,
	logger Logger,
) (*ChatService, error) {
	if chatRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if guruService == nil {
		return nil, chatservice.NewValidationError("constructor", "guru service is required")
	}
	if aiProvider == nil {
		return nil, chatservice.NewValidationError("constructor", "AI provider is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	config := chatservice.DefaultConfig()
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}

	return &ChatService{
		config:      config,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		guruService: guruService,
		aiProvider:  aiProvider,
		logger:      logger,
	}, nil
}

// CreateChat starts a new conversation with a guru the user may use
// (owned or public). Without an explicit title the chat gets the
// "Chat with {guru}" placeholder. The guru's chat counter is bumped.
func (s *ChatService) CreateChat(ctx context.Context, userID, guruID uint, title string) (*domain.Chat, error) {
	g, err := s.guruService.AuthorizeUse(ctx, userID, guruID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = chatservice.DefaultTitle(g.Name)
	}
	if len(title) > s.config.MaxTitleLength {
		title = title[:s.config.MaxTitleLength]
	}

	newChat := &domain.Chat{
		UserID:   userID,
		GuruID:   guruID,
		Title:    title,
		IsActive: true,
		Settings: domain.ChatSettings{AutoTitle: true, SaveHistory: true},
		Stats:    domain.ChatStats{LastActivity: time.Now()},
	}

	created, err := s.chatRepo.Create(ctx, newChat)
	if err != nil {
		return nil, chatservice.NewDependencyError("create_chat", "could not create chat", err)
	}

	if err := s.guruService.guruRepo.IncrementChatCount(ctx, guruID); err != nil {
		s.logger.Warn("guru chat counter update failed", "guru_id", guruID, "error", err)
	}

	s.logger.Info("chat created", "chat_id", created.ID, "user_id", userID, "guru_id", guruID)
	return created, nil
}

// GetChat applies the read rule: owner, public chat, or shared user.
func (s *ChatService) GetChat(ctx context.Context, userID, chatID uint) (*domain.Chat, error) {
	return s.authorizeRead(ctx, userID, chatID)
}

// GetPublicChat resolves a chat by its public share ID. Only chats
// flagged public are served; private ones are reported as missing so
// the share URL leaks nothing.
func (s *ChatService) GetPublicChat(ctx context.Context, publicID string) (*domain.Chat, []domain.Message, error) {
	c, err := s.chatRepo.FindByPublicID(ctx, publicID)
	if err != nil || !c.IsPublic {
		return nil, nil, chatservice.NewNotFoundError("get_public_chat", 0)
	}

	messages, err := s.messageRepo.FindByChatID(ctx, c.ID)
	if err != nil {
		return nil, nil, chatservice.NewDependencyError("get_public_chat", "could not load messages", err)
	}
	return c, messages, nil
}

// ListChats returns the user's chats, most recently active first.
func (s *ChatService) ListChats(ctx context.Context, userID uint, includeArchived bool) ([]domain.Chat, error) {
	chats, err := s.chatRepo.FindByUserID(ctx, userID, includeArchived)
	if err != nil {
		return nil, chatservice.NewDependencyError("list_chats", "could not list chats", err)
	}
	return chats, nil
}

// GetChatMessages returns the full message sequence, oldest first.
func (s *ChatService) GetChatMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	c, err := s.authorizeRead(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByChatID(ctx, c.ID)
	if err != nil {
		return nil, chatservice.NewDependencyError("get_messages", "could not load messages", err)
	}
	return messages, nil
}

// RecentWindow returns the last HistoryWindow messages in original
// order. This is the exact slice handed to the LLM as context.
func (s *ChatService) RecentWindow(ctx context.Context, chatID uint) ([]domain.Message, error) {
	messages, err := s.messageRepo.FindRecent(ctx, chatID, s.config.HistoryWindow)
	if err != nil {
		return nil, chatservice.NewDependencyError("recent_window", "could not load recent messages", err)
	}
	return messages, nil
}

// SendMessage runs one full chat turn. With chatID zero it continues
// the user's most recently active chat with the guru, creating one if
// none exists. The user message is persisted before the LLM call, so a
// provider failure leaves the chat with the user message only.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID, guruID uint, content string) (*SendResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, chatservice.NewValidationError("send_message", "message content cannot be empty")
	}
	if len(content) > s.config.MaxMessageLength {
		return nil, chatservice.NewValidationError("send_message", "message content exceeds maximum length")
	}

	var c *domain.Chat
	var err error
	if chatID != 0 {
		c, err = s.authorizeWrite(ctx, userID, chatID)
		if err != nil {
			return nil, err
		}
		guruID = c.GuruID
	} else {
		c, err = s.findOrCreateActiveChat(ctx, userID, guruID)
		if err != nil {
			return nil, err
		}
	}

	g, err := s.guruService.AuthorizeUse(ctx, c.UserID, guruID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.appendMessage(ctx, c, &domain.Message{
		ChatID:  c.ID,
		Sender:  domain.SenderUser,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	window, err := s.RecentWindow(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(window) == 0 {
		// History saving is off: the window is rebuilt from the one message
		// in flight.
		window = []domain.Message{*userMsg}
	}

	prompt := make([]ai.PromptMessage, 0, len(window))
	for _, m := range window {
		prompt = append(prompt, ai.PromptMessage{Sender: m.Sender, Content: m.Content})
	}

	genCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.aiProvider.Generate(genCtx, ai.GenerationRequest{
		SystemPrompt: g.SystemPrompt,
		Messages:     prompt,
		Model:        g.Settings.Model,
		Temperature:  g.Settings.Temperature,
		MaxTokens:    g.Settings.MaxTokens,
		TopP:         g.Settings.TopP,
	})
	if err != nil {
		// The user's message stays; no partial assistant message is stored.
		s.logger.Error("LLM generation failed", "chat_id", c.ID, "guru_id", guruID, "error", err)
		return nil, chatservice.NewDependencyError("send_message", "language model request failed", err)
	}

	reply, err := s.appendMessage(ctx, c, &domain.Message{
		ChatID:         c.ID,
		Sender:         domain.SenderGuru,
		Content:        result.Content,
		Model:          result.Model,
		Tokens:         result.Tokens,
		ProcessingTime: result.ProcessingTime,
	})
	if err != nil {
		return nil, err
	}

	if err := s.guruService.RecordUsage(ctx, guruID, true); err != nil {
		s.logger.Warn("guru usage update failed after reply", "guru_id", guruID)
	}

	return &SendResult{Chat: c, UserMessage: userMsg, Reply: reply}, nil
}

// RenameChat updates the title when it actually differs, stamping the
// rename history. Owner only.
func (s *ChatService) RenameChat(ctx context.Context, userID, chatID uint, newTitle string) (*domain.Chat, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil, chatservice.NewValidationError("rename_chat", "title cannot be empty")
	}
	if len(newTitle) > s.config.MaxTitleLength {
		return nil, chatservice.NewValidationError("rename_chat", "title must be 200 characters or less")
	}

	c, err := s.authorizeOwner(ctx, userID, chatID, "rename_chat")
	if err != nil {
		return nil, err
	}
	if c.Title == newTitle {
		return c, nil
	}

	now := time.Now()
	c.Title = newTitle
	c.Stats.RenameCount++
	c.Stats.LastRename = &now
	c.Stats.LastActivity = now

	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, chatservice.NewDependencyError("rename_chat", "could not save chat", err)
	}
	return c, nil
}

// UpdateChat applies a typed partial update; unspecified fields stay
// untouched. Owner only.
func (s *ChatService) UpdateChat(ctx context.Context, userID, chatID uint, input chatservice.UpdateInput) (*domain.Chat, error) {
	c, err := s.authorizeOwner(ctx, userID, chatID, "update_chat")
	if err != nil {
		return nil, err
	}
	if input.Empty() {
		return c, nil
	}

	if input.Title != nil {
		return nil, chatservice.NewValidationError("update_chat", "use the rename operation to change the title")
	}
	if input.IsPublic != nil {
		c.IsPublic = *input.IsPublic
	}
	if input.Tags != nil {
		c.Tags = *input.Tags
	}
	if input.AutoTitle != nil {
		c.Settings.AutoTitle = *input.AutoTitle
	}
	if input.SaveHistory != nil {
		c.Settings.SaveHistory = *input.SaveHistory
	}
	c.Stats.LastActivity = time.Now()

	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, chatservice.NewDependencyError("update_chat", "could not save chat", err)
	}
	return c, nil
}

// ShareChat grants another user read or write access. Owner only.
func (s *ChatService) ShareChat(ctx context.Context, ownerID, chatID, targetUserID uint, permission string) (*domain.Chat, error) {
	if permission != domain.SharePermissionRead && permission != domain.SharePermissionWrite {
		return nil, chatservice.NewValidationError("share_chat", "permission must be 'read' or 'write'")
	}
	if targetUserID == 0 || targetUserID == ownerID {
		return nil, chatservice.NewValidationError("share_chat", "invalid target user")
	}

	c, err := s.authorizeOwner(ctx, ownerID, chatID, "share_chat")
	if err != nil {
		return nil, err
	}

	updated := false
	for i, entry := range c.SharedWith {
		if entry.UserID == targetUserID {
			c.SharedWith[i].Permission = permission
			updated = true
			break
		}
	}
	if !updated {
		c.SharedWith = append(c.SharedWith, domain.SharedEntry{
			UserID:     targetUserID,
			Permission: permission,
			SharedAt:   time.Now(),
		})
	}

	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, chatservice.NewDependencyError("share_chat", "could not save chat", err)
	}
	return c, nil
}

// ClearMessages empties the chat. Stats reset to zero, activity is
// refreshed. Idempotent.
func (s *ChatService) ClearMessages(ctx context.Context, userID, chatID uint) (*domain.Chat, error) {
	c, err := s.authorizeOwner(ctx, userID, chatID, "clear_messages")
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.DeleteByChatID(ctx, c.ID); err != nil {
		return nil, chatservice.NewDependencyError("clear_messages", "could not delete messages", err)
	}

	c.Stats.MessageCount = 0
	c.Stats.TotalTokens = 0
	c.Stats.LastActivity = time.Now()
	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, chatservice.NewDependencyError("clear_messages", "could not save chat", err)
	}
	return c, nil
}

// ArchiveChat is the canonical delete: the chat is marked archived and
// inactive, message data stays.
func (s *ChatService) ArchiveChat(ctx context.Context, userID, chatID uint) error {
	c, err := s.authorizeOwner(ctx, userID, chatID, "archive_chat")
	if err != nil {
		return err
	}

	c.IsArchived = true
	c.IsActive = false
	if err := s.chatRepo.Save(ctx, c); err != nil {
		return chatservice.NewDependencyError("archive_chat", "could not save chat", err)
	}
	return nil
}

// ArchiveAll archives every non-archived chat the user owns.
func (s *ChatService) ArchiveAll(ctx context.Context, userID uint) (int64, error) {
	archived, err := s.chatRepo.ArchiveAllByUserID(ctx, userID)
	if err != nil {
		return 0, chatservice.NewDependencyError("archive_all", "could not archive chats", err)
	}
	return archived, nil
}

// HardDeleteChat permanently removes the chat and its messages. This is
// the explicit compaction path, separate from archiving.
func (s *ChatService) HardDeleteChat(ctx context.Context, userID, chatID uint) error {
	c, err := s.authorizeOwner(ctx, userID, chatID, "hard_delete_chat")
	if err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByChatID(ctx, c.ID); err != nil {
		return chatservice.NewDependencyError("hard_delete_chat", "could not delete messages", err)
	}
	if err := s.chatRepo.Delete(ctx, c.ID, userID); err != nil {
		return chatservice.NewDependencyError("hard_delete_chat", "could not delete chat", err)
	}

	s.logger.Info("chat hard-deleted", "chat_id", chatID, "user_id", userID)
	return nil
}

// ===== INTERNAL HELPERS =====

// findOrCreateActiveChat implements "continue most recent conversation"
// when no explicit chat is supplied.
func (s *ChatService) findOrCreateActiveChat(ctx context.Context, userID, guruID uint) (*domain.Chat, error) {
	c, err := s.chatRepo.FindActiveByUserAndGuru(ctx, userID, guruID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, chatrepo.ErrChatNotFound) {
		return nil, chatservice.NewDependencyError("find_active_chat", "could not look up active chat", err)
	}
	return s.CreateChat(ctx, userID, guruID, "")
}

// appendMessage persists a message (unless history saving is off) and
// re-establishes the chat's derived state: message count and token total
// recomputed from the sequence, auto-title, activity stamp.
func (s *ChatService) appendMessage(ctx context.Context, c *domain.Chat, msg *domain.Message) (*domain.Message, error) {
	msg.Content = strings.TrimSpace(msg.Content)
	if msg.Content == "" {
		return nil, chatservice.NewValidationError("append_message", "message content cannot be empty")
	}
	if len(msg.Content) > s.config.MaxMessageLength {
		return nil, chatservice.NewValidationError("append_message", "message content exceeds maximum length")
	}

	if c.Settings.SaveHistory {
		saved, err := s.messageRepo.Create(ctx, msg)
		if err != nil {
			return nil, chatservice.NewDependencyError("append_message", "could not save message", err)
		}
		msg = saved

		count, err := s.messageRepo.CountByChatID(ctx, c.ID)
		if err != nil {
			return nil, chatservice.NewDependencyError("append_message", "could not count messages", err)
		}
		tokens, err := s.messageRepo.SumTokensByChatID(ctx, c.ID)
		if err != nil {
			return nil, chatservice.NewDependencyError("append_message", "could not sum tokens", err)
		}
		c.Stats.MessageCount = int(count)
		c.Stats.TotalTokens = int(tokens)

		// Auto-title fires once: only while the title is still the
		// placeholder, and only from a user-authored message.
		if msg.Sender == domain.SenderUser && c.Settings.AutoTitle && chatservice.IsDefaultTitle(c.Title) {
			c.Title = chatservice.AutoTitle(msg.Content, s.config.AutoTitleLength)
		}
	}

	c.Stats.LastActivity = time.Now()
	if err := s.chatRepo.Save(ctx, c); err != nil {
		return nil, chatservice.NewDependencyError("append_message", "could not save chat", err)
	}

	return msg, nil
}

// ===== AUTHORIZATION HELPERS =====

func (s *ChatService) loadChat(ctx context.Context, chatID uint, operation string) (*domain.Chat, error) {
	c, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, chatrepo.ErrChatNotFound) {
			return nil, chatservice.NewNotFoundError(operation, chatID)
		}
		return nil, chatservice.NewDependencyError(operation, "could not load chat", err)
	}
	return c, nil
}

func (s *ChatService) authorizeRead(ctx context.Context, userID, chatID uint) (*domain.Chat, error) {
	c, err := s.loadChat(ctx, chatID, "read_chat")
	if err != nil {
		return nil, err
	}
	if !c.CanRead(userID) {
		return nil, chatservice.NewUnauthorizedError(userID, chatID)
	}
	return c, nil
}

func (s *ChatService) authorizeWrite(ctx context.Context, userID, chatID uint) (*domain.Chat, error) {
	c, err := s.loadChat(ctx, chatID, "write_chat")
	if err != nil {
		return nil, err
	}
	if !c.CanWrite(userID) {
		return nil, chatservice.NewUnauthorizedError(userID, chatID)
	}
	return c, nil
}

func (s *ChatService) authorizeOwner(ctx context.Context, userID, chatID uint, operation string) (*domain.Chat, error) {
	c, err := s.loadChat(ctx, chatID, operation)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, chatservice.NewUnauthorizedError(userID, chatID)
	}
	return c, nil
}
