// File: internal/services/fakes_test.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/uniguru/uniguru-server/internal/domain"
	chatrepo "github.com/uniguru/uniguru-server/internal/repository/chat"
	gururepo "github.com/uniguru/uniguru-server/internal/repository/guru"
)

// In-memory repository fakes. They store values and hand out copies so a
// mutation only sticks after an explicit Save, same as the real store.

type fakeGuruRepo struct {
	nextID uint
	gurus  map[uint]domain.Guru

	usageCalls     int
	chatCountCalls int
	saveErr        error
	usageErr       error
}

func newFakeGuruRepo() *fakeGuruRepo {
	return &fakeGuruRepo{nextID: 1, gurus: map[uint]domain.Guru{}}
}

func (f *fakeGuruRepo) Create(_ context.Context, g *domain.Guru) (*domain.Guru, error) {
	g.ID = f.nextID
	f.nextID++
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	f.gurus[g.ID] = *g
	out := *g
	return &out, nil
}

func (f *fakeGuruRepo) FindByID(_ context.Context, id uint) (*domain.Guru, error) {
	g, ok := f.gurus[id]
	if !ok {
		return nil, gururepo.ErrGuruNotFound
	}
	out := g
	return &out, nil
}

func (f *fakeGuruRepo) FindByPublicID(_ context.Context, publicID string) (*domain.Guru, error) {
	for _, g := range f.gurus {
		if g.PublicID == publicID {
			out := g
			return &out, nil
		}
	}
	return nil, gururepo.ErrGuruNotFound
}

func (f *fakeGuruRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Guru, error) {
	var out []domain.Guru
	for _, g := range f.gurus {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGuruRepo) FindVisibleToUser(_ context.Context, userID uint) ([]domain.Guru, error) {
	var out []domain.Guru
	for _, g := range f.gurus {
		if g.IsActive && (g.UserID == userID || g.IsPublic) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGuruRepo) Save(_ context.Context, g *domain.Guru) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	g.UpdatedAt = time.Now()
	f.gurus[g.ID] = *g
	return nil
}

func (f *fakeGuruRepo) UpdateUsageStats(_ context.Context, guruID uint, incrementMessages bool) error {
	if f.usageErr != nil {
		return f.usageErr
	}
	g, ok := f.gurus[guruID]
	if !ok {
		return gururepo.ErrGuruNotFound
	}
	f.usageCalls++
	g.Stats.LastUsed = time.Now()
	if incrementMessages {
		g.Stats.TotalMessages++
	}
	f.gurus[guruID] = g
	return nil
}

func (f *fakeGuruRepo) IncrementChatCount(_ context.Context, guruID uint) error {
	g, ok := f.gurus[guruID]
	if !ok {
		return gururepo.ErrGuruNotFound
	}
	f.chatCountCalls++
	g.Stats.TotalChats++
	g.Stats.LastUsed = time.Now()
	f.gurus[guruID] = g
	return nil
}

func (f *fakeGuruRepo) CountByUserID(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, g := range f.gurus {
		if g.UserID == userID {
			n++
		}
	}
	return n, nil
}

// chatFixture is a minimal active chat for seeding fakes directly.
func chatFixture(userID, guruID uint) *domain.Chat {
	return &domain.Chat{
		UserID:   userID,
		GuruID:   guruID,
		Title:    "Chat with Ada",
		IsActive: true,
		Settings: domain.ChatSettings{AutoTitle: true, SaveHistory: true},
		Stats:    domain.ChatStats{LastActivity: time.Now()},
	}
}

type fakeChatRepo struct {
	nextID uint
	chats  map[uint]domain.Chat

	saveErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{nextID: 1, chats: map[uint]domain.Chat{}}
}

func (f *fakeChatRepo) Create(_ context.Context, c *domain.Chat) (*domain.Chat, error) {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.chats[c.ID] = *c
	out := *c
	return &out, nil
}

func (f *fakeChatRepo) FindByID(_ context.Context, id uint) (*domain.Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return nil, chatrepo.ErrChatNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeChatRepo) FindByPublicID(_ context.Context, publicID string) (*domain.Chat, error) {
	for _, c := range f.chats {
		if c.PublicID == publicID {
			out := c
			return &out, nil
		}
	}
	return nil, chatrepo.ErrChatNotFound
}

func (f *fakeChatRepo) FindByUserID(_ context.Context, userID uint, includeArchived bool) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range f.chats {
		if c.UserID != userID {
			continue
		}
		if !includeArchived && c.IsArchived {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stats.LastActivity.After(out[j].Stats.LastActivity)
	})
	return out, nil
}

func (f *fakeChatRepo) FindActiveByUserAndGuru(_ context.Context, userID, guruID uint) (*domain.Chat, error) {
	var found *domain.Chat
	for _, c := range f.chats {
		c := c
		if c.UserID != userID || c.GuruID != guruID || !c.IsActive || c.IsArchived {
			continue
		}
		if found == nil || c.Stats.LastActivity.After(found.Stats.LastActivity) {
			found = &c
		}
	}
	if found == nil {
		return nil, chatrepo.ErrChatNotFound
	}
	out := *found
	return &out, nil
}

func (f *fakeChatRepo) Save(_ context.Context, c *domain.Chat) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	c.UpdatedAt = time.Now()
	f.chats[c.ID] = *c
	return nil
}

func (f *fakeChatRepo) ArchiveAllByUserID(_ context.Context, userID uint) (int64, error) {
	var n int64
	for id, c := range f.chats {
		if c.UserID == userID && !c.IsArchived {
			c.IsArchived = true
			c.IsActive = false
			f.chats[id] = c
			n++
		}
	}
	return n, nil
}

func (f *fakeChatRepo) ArchiveByGuruID(_ context.Context, userID, guruID uint) (int64, error) {
	var n int64
	for id, c := range f.chats {
		if c.UserID == userID && c.GuruID == guruID && !c.IsArchived {
			c.IsArchived = true
			c.IsActive = false
			f.chats[id] = c
			n++
		}
	}
	return n, nil
}

func (f *fakeChatRepo) Delete(_ context.Context, chatID, userID uint) error {
	c, ok := f.chats[chatID]
	if !ok || c.UserID != userID {
		return chatrepo.ErrUnauthorizedAccess
	}
	delete(f.chats, chatID)
	return nil
}

type fakeMessageRepo struct {
	nextID   uint
	messages []domain.Message

	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (f *fakeMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	m.ID = f.nextID
	f.nextID++
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, *m)
	out := *m
	return &out, nil
}

func (f *fakeMessageRepo) FindByChatID(_ context.Context, chatID uint) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) FindRecent(ctx context.Context, chatID uint, limit int) ([]domain.Message, error) {
	all, _ := f.FindByChatID(ctx, chatID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (f *fakeMessageRepo) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	all, _ := f.FindByChatID(ctx, chatID)
	return int64(len(all)), nil
}

func (f *fakeMessageRepo) SumTokensByChatID(ctx context.Context, chatID uint) (int64, error) {
	all, _ := f.FindByChatID(ctx, chatID)
	var sum int64
	for _, m := range all {
		sum += int64(m.Tokens)
	}
	return sum, nil
}

func (f *fakeMessageRepo) DeleteByChatID(_ context.Context, chatID uint) error {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.ChatID != chatID {
			kept = append(kept, m)
		}
	}
	f.messages = kept
	return nil
}
