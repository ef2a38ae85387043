// File: internal/services/chat_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniguru/uniguru-server/internal/domain"
	"github.com/uniguru/uniguru-server/internal/services/ai"
	chatservice "github.com/uniguru/uniguru-server/internal/services/chat"
	guruservice "github.com/uniguru/uniguru-server/internal/services/guru"
)

type fakeAIProvider struct {
	reply    string
	err      error
	requests []ai.GenerationRequest
}

func (f *fakeAIProvider) Generate(_ context.Context, req ai.GenerationRequest) (*ai.GenerationResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerationResult{
		Content:        f.reply,
		Model:          req.Model,
		Tokens:         7,
		ProcessingTime: 5 * time.Millisecond,
	}, nil
}

func (f *fakeAIProvider) HealthCheck(context.Context) error { return nil }

type chatTestEnv struct {
	svc         *ChatService
	guruSvc     *GuruService
	guruRepo    *fakeGuruRepo
	chatRepo    *fakeChatRepo
	messageRepo *fakeMessageRepo
	provider    *fakeAIProvider
	guru        *domain.Guru
}

// newChatTestEnv wires the chat service against in-memory fakes with one
// guru owned by user 1.
func newChatTestEnv(t *testing.T) *chatTestEnv {
	t.Helper()
	guruRepo := newFakeGuruRepo()
	chatRepo := newFakeChatRepo()
	messageRepo := newFakeMessageRepo()
	provider := &fakeAIProvider{reply: "An assistant reply."}

	guruSvc, err := NewGuruService(guruRepo, chatRepo, &NoOpLogger{})
	require.NoError(t, err)
	svc, err := NewChatService(chatRepo, messageRepo, guruSvc, provider, &NoOpLogger{})
	require.NoError(t, err)

	g, err := guruSvc.CreateGuru(context.Background(), 1, guruservice.CreateInput{Name: "Ada", Subject: "Math"})
	require.NoError(t, err)

	return &chatTestEnv{
		svc:         svc,
		guruSvc:     guruSvc,
		guruRepo:    guruRepo,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		provider:    provider,
		guru:        g,
	}
}

func requireChatErrType(t *testing.T, err error, want chatservice.ErrorType) {
	t.Helper()
	var chatErr *chatservice.ChatError
	require.True(t, errors.As(err, &chatErr), "expected *chat.ChatError, got %v", err)
	assert.Equal(t, want, chatErr.Type)
}

func TestCreateChat(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the placeholder title and bumps the guru counter", func(t *testing.T) {
		env := newChatTestEnv(t)
		c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
		require.NoError(t, err)

		assert.Equal(t, "Chat with Ada", c.Title)
		assert.True(t, c.Settings.AutoTitle)
		assert.True(t, c.Settings.SaveHistory)
		assert.Equal(t, 1, env.guruRepo.gurus[env.guru.ID].Stats.TotalChats)
	})

	t.Run("keeps an explicit title", func(t *testing.T) {
		env := newChatTestEnv(t)
		c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "Homework help")
		require.NoError(t, err)
		assert.Equal(t, "Homework help", c.Title)
	})

	t.Run("rejects another user's private guru", func(t *testing.T) {
		env := newChatTestEnv(t)
		_, err := env.svc.CreateChat(ctx, 2, env.guru.ID, "")
		requireGuruErrType(t, err, guruservice.ErrTypeUnauthorized)
	})
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("full turn keeps stats in sync with the message table", func(t *testing.T) {
		env := newChatTestEnv(t)

		result, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "What is a derivative?")
		require.NoError(t, err)

		assert.Equal(t, domain.SenderUser, result.UserMessage.Sender)
		assert.Equal(t, domain.SenderGuru, result.Reply.Sender)
		assert.Equal(t, "An assistant reply.", result.Reply.Content)
		assert.Equal(t, 7, result.Reply.Tokens)

		// Derived stats match the actual message sequence.
		count, _ := env.messageRepo.CountByChatID(ctx, result.Chat.ID)
		tokens, _ := env.messageRepo.SumTokensByChatID(ctx, result.Chat.ID)
		assert.Equal(t, int(count), result.Chat.Stats.MessageCount)
		assert.Equal(t, int(tokens), result.Chat.Stats.TotalTokens)
		assert.Equal(t, 2, result.Chat.Stats.MessageCount)
		assert.Equal(t, 7, result.Chat.Stats.TotalTokens)

		// The guru's persona drives the request.
		require.Len(t, env.provider.requests, 1)
		req := env.provider.requests[0]
		assert.Equal(t, env.guru.SystemPrompt, req.SystemPrompt)
		assert.Equal(t, env.guru.Settings.Model, req.Model)

		// Usage stats were recorded.
		assert.Equal(t, 1, env.guruRepo.gurus[env.guru.ID].Stats.TotalMessages)
	})

	t.Run("auto-title fires once from the first user message", func(t *testing.T) {
		env := newChatTestEnv(t)
		long := strings.Repeat("q", 52)

		result, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, long)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("q", 50)+"...", result.Chat.Title)

		// The second message leaves the title alone.
		result, err = env.svc.SendMessage(ctx, 1, result.Chat.ID, 0, "and another thing")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("q", 50)+"...", result.Chat.Title)
	})

	t.Run("continues the most recent active chat when no chat is named", func(t *testing.T) {
		env := newChatTestEnv(t)

		first, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "first")
		require.NoError(t, err)
		second, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "second")
		require.NoError(t, err)

		assert.Equal(t, first.Chat.ID, second.Chat.ID)
		assert.Equal(t, 4, second.Chat.Stats.MessageCount)
	})

	t.Run("provider failure keeps the user message and nothing else", func(t *testing.T) {
		env := newChatTestEnv(t)
		env.provider.err = errors.New("upstream 503")

		_, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "hello?")
		requireChatErrType(t, err, chatservice.ErrTypeDependency)

		chats, _ := env.chatRepo.FindByUserID(ctx, 1, false)
		require.Len(t, chats, 1)
		messages, _ := env.messageRepo.FindByChatID(ctx, chats[0].ID)
		require.Len(t, messages, 1)
		assert.Equal(t, domain.SenderUser, messages[0].Sender)
	})

	t.Run("rejects empty and oversized content", func(t *testing.T) {
		env := newChatTestEnv(t)

		_, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "   ")
		requireChatErrType(t, err, chatservice.ErrTypeValidation)

		_, err = env.svc.SendMessage(ctx, 1, 0, env.guru.ID, strings.Repeat("x", 10001))
		requireChatErrType(t, err, chatservice.ErrTypeValidation)
	})
}

func TestRecentWindow(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)

	seed := func(n int) {
		for i := 0; i < n; i++ {
			_, err := env.messageRepo.Create(ctx, &domain.Message{
				ChatID: c.ID, Sender: domain.SenderUser, Content: "m",
			})
			require.NoError(t, err)
		}
	}

	seed(3)
	window, err := env.svc.RecentWindow(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, window, 3)

	seed(12)
	window, err = env.svc.RecentWindow(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, window, 10)

	// Oldest first, and the window holds the newest messages.
	all, _ := env.messageRepo.FindByChatID(ctx, c.ID)
	assert.Equal(t, all[len(all)-10].ID, window[0].ID)
	assert.Equal(t, all[len(all)-1].ID, window[9].ID)
}

func TestSaveHistoryOff(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)

	off := false
	_, err = env.svc.UpdateChat(ctx, 1, c.ID, chatservice.UpdateInput{SaveHistory: &off})
	require.NoError(t, err)

	result, err := env.svc.SendMessage(ctx, 1, c.ID, 0, "ephemeral question")
	require.NoError(t, err)

	// Nothing persisted, stats untouched.
	messages, _ := env.messageRepo.FindByChatID(ctx, c.ID)
	assert.Empty(t, messages)
	assert.Equal(t, 0, result.Chat.Stats.MessageCount)

	// The in-flight message still reached the model.
	require.Len(t, env.provider.requests, 1)
	require.Len(t, env.provider.requests[0].Messages, 1)
	assert.Equal(t, "ephemeral question", env.provider.requests[0].Messages[0].Content)
}

func TestRenameChat(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)

	renamed, err := env.svc.RenameChat(ctx, 1, c.ID, "Calculus notes")
	require.NoError(t, err)
	assert.Equal(t, "Calculus notes", renamed.Title)
	assert.Equal(t, 1, renamed.Stats.RenameCount)
	require.NotNil(t, renamed.Stats.LastRename)

	t.Run("same title is a no-op", func(t *testing.T) {
		again, err := env.svc.RenameChat(ctx, 1, c.ID, "Calculus notes")
		require.NoError(t, err)
		assert.Equal(t, 1, again.Stats.RenameCount)
	})

	t.Run("non-owner cannot rename", func(t *testing.T) {
		_, err := env.svc.RenameChat(ctx, 2, c.ID, "hijack")
		requireChatErrType(t, err, chatservice.ErrTypeUnauthorized)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		_, err := env.svc.RenameChat(ctx, 1, c.ID, "  ")
		requireChatErrType(t, err, chatservice.ErrTypeValidation)
	})
}

func TestUpdateChatRejectsTitle(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)

	title := "sneaky rename"
	_, err = env.svc.UpdateChat(ctx, 1, c.ID, chatservice.UpdateInput{Title: &title})
	requireChatErrType(t, err, chatservice.ErrTypeValidation)
}

func TestChatSharing(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)

	t.Run("unshared chat is invisible to others", func(t *testing.T) {
		_, err := env.svc.GetChat(ctx, 2, c.ID)
		requireChatErrType(t, err, chatservice.ErrTypeUnauthorized)
	})

	t.Run("read grant allows reading but not writing", func(t *testing.T) {
		_, err := env.svc.ShareChat(ctx, 1, c.ID, 2, domain.SharePermissionRead)
		require.NoError(t, err)

		_, err = env.svc.GetChat(ctx, 2, c.ID)
		require.NoError(t, err)

		_, err = env.svc.SendMessage(ctx, 2, c.ID, 0, "may I?")
		requireChatErrType(t, err, chatservice.ErrTypeUnauthorized)
	})

	t.Run("write grant upgrades in place", func(t *testing.T) {
		shared, err := env.svc.ShareChat(ctx, 1, c.ID, 2, domain.SharePermissionWrite)
		require.NoError(t, err)
		require.Len(t, shared.SharedWith, 1)

		result, err := env.svc.SendMessage(ctx, 2, c.ID, 0, "now I can")
		require.NoError(t, err)
		assert.Equal(t, uint(1), result.Chat.UserID)
	})

	t.Run("only the owner shares", func(t *testing.T) {
		_, err := env.svc.ShareChat(ctx, 2, c.ID, 3, domain.SharePermissionRead)
		requireChatErrType(t, err, chatservice.ErrTypeUnauthorized)
	})

	t.Run("bad permission is rejected", func(t *testing.T) {
		_, err := env.svc.ShareChat(ctx, 1, c.ID, 3, "owner")
		requireChatErrType(t, err, chatservice.ErrTypeValidation)
	})
}

func TestGetPublicChat(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	c, err := env.svc.CreateChat(ctx, 1, env.guru.ID, "")
	require.NoError(t, err)
	// The fake Create does not run gorm hooks, so set the public ID here.
	stored := env.chatRepo.chats[c.ID]
	stored.PublicID = "pub-123"
	env.chatRepo.chats[c.ID] = stored

	t.Run("private chat looks missing", func(t *testing.T) {
		_, _, err := env.svc.GetPublicChat(ctx, "pub-123")
		requireChatErrType(t, err, chatservice.ErrTypeNotFound)
	})

	t.Run("public chat serves its messages", func(t *testing.T) {
		public := true
		_, err := env.svc.UpdateChat(ctx, 1, c.ID, chatservice.UpdateInput{IsPublic: &public})
		require.NoError(t, err)
		_, err = env.svc.SendMessage(ctx, 1, c.ID, 0, "shared content")
		require.NoError(t, err)

		got, messages, err := env.svc.GetPublicChat(ctx, "pub-123")
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Len(t, messages, 2)
	})

	t.Run("unknown id looks missing", func(t *testing.T) {
		_, _, err := env.svc.GetPublicChat(ctx, "no-such-id")
		requireChatErrType(t, err, chatservice.ErrTypeNotFound)
	})
}

func TestClearMessages(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	result, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "to be erased")
	require.NoError(t, err)
	require.Equal(t, 2, result.Chat.Stats.MessageCount)

	cleared, err := env.svc.ClearMessages(ctx, 1, result.Chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, cleared.Stats.MessageCount)
	assert.Equal(t, 0, cleared.Stats.TotalTokens)

	messages, _ := env.messageRepo.FindByChatID(ctx, result.Chat.ID)
	assert.Empty(t, messages)

	// Clearing an empty chat succeeds.
	_, err = env.svc.ClearMessages(ctx, 1, result.Chat.ID)
	require.NoError(t, err)
}

func TestArchiveAndHardDelete(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	result, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "keep me around")
	require.NoError(t, err)
	chatID := result.Chat.ID

	t.Run("archive hides the chat but keeps its data", func(t *testing.T) {
		require.NoError(t, env.svc.ArchiveChat(ctx, 1, chatID))

		active, _ := env.svc.ListChats(ctx, 1, false)
		assert.Empty(t, active)
		all, _ := env.svc.ListChats(ctx, 1, true)
		assert.Len(t, all, 1)

		messages, _ := env.messageRepo.FindByChatID(ctx, chatID)
		assert.Len(t, messages, 2)
	})

	t.Run("archived chat is not resumed by guru-only sends", func(t *testing.T) {
		next, err := env.svc.SendMessage(ctx, 1, 0, env.guru.ID, "fresh start")
		require.NoError(t, err)
		assert.NotEqual(t, chatID, next.Chat.ID)
	})

	t.Run("hard delete removes chat and messages", func(t *testing.T) {
		require.NoError(t, env.svc.HardDeleteChat(ctx, 1, chatID))

		_, err := env.svc.GetChat(ctx, 1, chatID)
		requireChatErrType(t, err, chatservice.ErrTypeNotFound)
		messages, _ := env.messageRepo.FindByChatID(ctx, chatID)
		assert.Empty(t, messages)
	})
}

func TestArchiveAll(t *testing.T) {
	ctx := context.Background()
	env := newChatTestEnv(t)

	for i := 0; i < 3; i++ {
		_, err := env.chatRepo.Create(ctx, chatFixture(1, env.guru.ID))
		require.NoError(t, err)
	}
	_, err := env.chatRepo.Create(ctx, chatFixture(2, env.guru.ID))
	require.NoError(t, err)

	archived, err := env.svc.ArchiveAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), archived)

	other, _ := env.svc.ListChats(ctx, 2, false)
	assert.Len(t, other, 1)
}
