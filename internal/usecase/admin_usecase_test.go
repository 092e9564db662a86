package usecase

import (
	"context"
	"testing"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ApproveNoteAwardsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Ilgaz", "ilgaz@example.com").User
	note := f.createNote(t, author.ID, "Geometri")

	pending, err := f.admin.PendingNotes(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := f.admin.ApproveNote(ctx, note.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	_, err = f.admin.ApproveNote(ctx, note.ID, true)
	require.NoError(t, err)

	pending, err = f.admin.PendingNotes(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stored, err := f.userRepo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 10+20, stored.Points)

	_, err = f.admin.ApproveNote(ctx, "missing", true)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestAdmin_DeactivateRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := f.register(t, "Kaan", "kaan@example.com")
	admin := f.makeAdmin(t, f.register(t, "Admin", "admin@example.com").User.ID)

	user, err := f.admin.SetUserActive(ctx, admin, target.User.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	_, err = f.auth.Authenticate(ctx, target.Token)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	sessions, err := f.auth.ListSessions(ctx, target.User.ID, "")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = f.admin.SetUserActive(ctx, admin, admin.UserID, false)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	_, err = f.admin.SetUserActive(ctx, admin, "missing", true)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestAdmin_SetUserRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := f.register(t, "Lale", "lale@example.com").User
	admin := f.makeAdmin(t, f.register(t, "Admin", "admin@example.com").User.ID)

	user, err := f.admin.SetUserRole(ctx, admin, target.ID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	_, err = f.admin.SetUserRole(ctx, admin, target.ID, "superuser")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = f.admin.SetUserRole(ctx, admin, admin.UserID, entity.RoleUser)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestAdmin_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Melis", "melis@example.com").User
	f.register(t, "Nil", "nil@example.com")

	first := f.createNote(t, author.ID, "one")
	f.createNote(t, author.ID, "two")
	_, err := f.admin.ApproveNote(ctx, first.ID, true)
	require.NoError(t, err)
	_, err = f.notes.Download(ctx, first.ID)
	require.NoError(t, err)
	_, err = f.community.CreatePost(ctx, author.ID, PostInput{Title: "t", Content: "c", Type: entity.PostTypeDiscussion})
	require.NoError(t, err)
	_, err = f.categories.Create(ctx, author.ID, CategoryInput{Name: "Analiz", Subject: entity.SubjectMatematik, Grade: entity.Grade12})
	require.NoError(t, err)

	stats, err := f.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.Stats{
		Users:        2,
		ActiveUsers:  2,
		Notes:        2,
		PendingNotes: 1,
		Downloads:    1,
		Posts:        1,
		Questions:    0,
		Categories:   1,
	}, stats)
}

func TestCategory_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	category, err := f.categories.Create(ctx, "admin", CategoryInput{Name: " Mekanik ", Subject: entity.SubjectFizik, Grade: entity.Grade11})
	require.NoError(t, err)
	assert.Equal(t, "Mekanik", category.Name)
	assert.True(t, category.IsActive)

	_, err = f.categories.Create(ctx, "admin", CategoryInput{Name: "Mekanik", Subject: entity.SubjectFizik, Grade: entity.Grade11})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = f.categories.Create(ctx, "admin", CategoryInput{Name: "X", Subject: entity.SubjectFizik, Grade: "13"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	inactive := false
	updated, err := f.categories.Update(ctx, category.ID, CategoryInput{
		Name: "Dinamik", Subject: entity.SubjectFizik, Grade: entity.Grade11, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dinamik", updated.Name)
	assert.False(t, updated.IsActive)

	active, err := f.categories.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, f.categories.Delete(ctx, category.ID))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.categories.Delete(ctx, category.ID)))
}
