// File: internal/services/guru_service_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	guruservice "github.com/uniguru/uniguru-server/internal/services/guru"
)

func newGuruServiceForTest(t *testing.T) (*GuruService, *fakeGuruRepo, *fakeChatRepo) {
	t.Helper()
	guruRepo := newFakeGuruRepo()
	chatRepo := newFakeChatRepo()
	svc, err := NewGuruService(guruRepo, chatRepo, &NoOpLogger{})
	require.NoError(t, err)
	return svc, guruRepo, chatRepo
}

func requireGuruErrType(t *testing.T, err error, want guruservice.ErrorType) {
	t.Helper()
	var guruErr *guruservice.GuruError
	require.True(t, errors.As(err, &guruErr), "expected *guru.GuruError, got %v", err)
	assert.Equal(t, want, guruErr.Type)
}

func TestCreateGuru(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the system prompt and applies defaults", func(t *testing.T) {
		svc, _, _ := newGuruServiceForTest(t)

		g, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{
			Name:    "  Ada  ",
			Subject: "Mathematics",
		})
		require.NoError(t, err)

		assert.Equal(t, "Ada", g.Name)
		assert.True(t, g.IsActive)
		assert.Contains(t, g.SystemPrompt, "You are Ada, an expert in Mathematics.")
		assert.Equal(t, "llama3-8b-8192", g.Settings.Model)
		assert.InDelta(t, 0.7, g.Settings.Temperature, 0.001)
		assert.Equal(t, 1024, g.Settings.MaxTokens)
	})

	t.Run("rejects a short name", func(t *testing.T) {
		svc, _, _ := newGuruServiceForTest(t)
		_, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "A", Subject: "Math"})
		requireGuruErrType(t, err, guruservice.ErrTypeValidation)
	})

	t.Run("rejects an unknown model", func(t *testing.T) {
		svc, _, _ := newGuruServiceForTest(t)
		model := "gpt-99"
		_, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Ada", Subject: "Math", Model: &model})
		requireGuruErrType(t, err, guruservice.ErrTypeValidation)
	})

	t.Run("rejects an overlong description", func(t *testing.T) {
		svc, _, _ := newGuruServiceForTest(t)
		_, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{
			Name:        "Ada",
			Subject:     "Math",
			Description: strings.Repeat("x", 501),
		})
		requireGuruErrType(t, err, guruservice.ErrTypeValidation)
	})
}

func TestUpdateGuruPromptRegeneration(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGuruServiceForTest(t)

	g, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Ada", Subject: "Biology"})
	require.NoError(t, err)
	originalPrompt := g.SystemPrompt

	t.Run("settings-only update leaves the prompt alone", func(t *testing.T) {
		temp := float32(0.2)
		updated, err := svc.UpdateGuru(ctx, 1, g.ID, guruservice.UpdateInput{Temperature: &temp})
		require.NoError(t, err)
		assert.Equal(t, originalPrompt, updated.SystemPrompt)
		assert.InDelta(t, 0.2, updated.Settings.Temperature, 0.001)
	})

	t.Run("subject change regenerates the prompt", func(t *testing.T) {
		subject := "Chemistry"
		updated, err := svc.UpdateGuru(ctx, 1, g.ID, guruservice.UpdateInput{Subject: &subject})
		require.NoError(t, err)
		assert.NotEqual(t, originalPrompt, updated.SystemPrompt)
		assert.Contains(t, updated.SystemPrompt, "Chemistry")
		assert.NotContains(t, updated.SystemPrompt, "Biology")
	})

	t.Run("writing the same value back does not count as a change", func(t *testing.T) {
		subject := "Chemistry"
		before, err := svc.GetGuru(ctx, 1, g.ID)
		require.NoError(t, err)
		updated, err := svc.UpdateGuru(ctx, 1, g.ID, guruservice.UpdateInput{Subject: &subject})
		require.NoError(t, err)
		assert.Equal(t, before.SystemPrompt, updated.SystemPrompt)
	})
}

func TestGuruAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newGuruServiceForTest(t)

	private, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Ada", Subject: "Math"})
	require.NoError(t, err)
	public, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Eve", Subject: "Physics", IsPublic: true})
	require.NoError(t, err)

	t.Run("private guru is invisible to others", func(t *testing.T) {
		_, err := svc.GetGuru(ctx, 2, private.ID)
		requireGuruErrType(t, err, guruservice.ErrTypeUnauthorized)
	})

	t.Run("public guru is readable by anyone", func(t *testing.T) {
		g, err := svc.GetGuru(ctx, 2, public.ID)
		require.NoError(t, err)
		assert.Equal(t, "Eve", g.Name)
	})

	t.Run("public flag never grants mutation", func(t *testing.T) {
		name := "Hacked"
		_, err := svc.UpdateGuru(ctx, 2, public.ID, guruservice.UpdateInput{Name: &name})
		requireGuruErrType(t, err, guruservice.ErrTypeUnauthorized)

		err = svc.SoftDeleteGuru(ctx, 2, public.ID)
		requireGuruErrType(t, err, guruservice.ErrTypeUnauthorized)
	})

	t.Run("missing guru is not-found, not unauthorized", func(t *testing.T) {
		_, err := svc.GetGuru(ctx, 1, 999)
		requireGuruErrType(t, err, guruservice.ErrTypeNotFound)
	})
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	svc, guruRepo, _ := newGuruServiceForTest(t)

	g, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Ada", Subject: "Math", IsPublic: true})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, 2, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.IsLikedBy(2))

	// Second toggle inverts the first.
	unliked, err := svc.ToggleLike(ctx, 2, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)
	assert.False(t, unliked.IsLikedBy(2))

	// An unlike with the counter already at zero stays at zero.
	stored := guruRepo.gurus[g.ID]
	stored.LikedBy = append(stored.LikedBy, 2)
	stored.Likes = 0
	guruRepo.gurus[g.ID] = stored

	floored, err := svc.ToggleLike(ctx, 2, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, floored.Likes)
	assert.False(t, floored.IsLikedBy(2))
}

func TestSoftDeleteGuru(t *testing.T) {
	ctx := context.Background()
	svc, guruRepo, chatRepo := newGuruServiceForTest(t)

	g, err := svc.CreateGuru(ctx, 1, guruservice.CreateInput{Name: "Ada", Subject: "Math"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := chatRepo.Create(ctx, chatFixture(1, g.ID))
		require.NoError(t, err)
	}

	require.NoError(t, svc.SoftDeleteGuru(ctx, 1, g.ID))

	stored := guruRepo.gurus[g.ID]
	assert.False(t, stored.IsActive)
	for _, c := range chatRepo.chats {
		assert.True(t, c.IsArchived)
	}

	t.Run("deactivated guru cannot start chats", func(t *testing.T) {
		_, err := svc.AuthorizeUse(ctx, 1, g.ID)
		requireGuruErrType(t, err, guruservice.ErrTypeNotFound)
	})

	t.Run("owner still sees it in the own list", func(t *testing.T) {
		own, err := svc.ListOwnGurus(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, own, 1)

		visible, err := svc.ListVisibleGurus(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}
