package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Hakan", "hakan@example.com").User

	note := f.createNote(t, author.ID, "Limit")
	assert.NotEmpty(t, note.ID)
	assert.False(t, note.IsApproved)
	assert.Zero(t, note.Downloads)
	assert.Zero(t, note.ViewCount)
	assert.Zero(t, note.Rating)
	assert.Equal(t, author.ID, note.AuthorID)
	assert.Equal(t, int64(len(pdfBytes)), note.FileSize)
	assert.Equal(t, "Limit.pdf", note.FileName)

	upload, err := f.uploadRepo.GetByURL(context.Background(), note.FileURL)
	require.NoError(t, err)
	assert.Equal(t, note.ID, upload.ClaimedBy)

	assert.Equal(t, []entity.ActivityType{entity.ActivityNoteCreated}, f.publisher.types())
	stored, err := f.userRepo.GetByID(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Points)
	assert.Contains(t, stored.Badges, BadgeFirstNote)
}

func TestNote_CreateRequiresOwnUnclaimedUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Irmak", "irmak@example.com").User
	other := f.register(t, "Jale", "jale@example.com").User

	in := NoteInput{Title: "Vektörler", Subject: entity.SubjectFizik, Grade: entity.Grade10}

	in.FileURL = "http://elsewhere/file.pdf"
	_, err := f.notes.Create(ctx, author.ID, in)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	in.FileURL = f.uploadPDF(t, other.ID, "theirs.pdf").FileURL
	_, err = f.notes.Create(ctx, author.ID, in)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	in.FileURL = f.uploadPDF(t, author.ID, "mine.pdf").FileURL
	_, err = f.notes.Create(ctx, author.ID, in)
	require.NoError(t, err)
	_, err = f.notes.Create(ctx, author.ID, in)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestNote_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.notes.Create(context.Background(), "user-1", NoteInput{
		Title:   "",
		Subject: "astroloji",
		Grade:   entity.Grade9,
		FileURL: "x",
	})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	fields := map[string]string{}
	for _, fe := range appErr.Fields {
		fields[fe.Field] = fe.Error
	}
	assert.Equal(t, "is required", fields["title"])
	assert.Contains(t, fields["subject"], "must be one of")
}

func TestNote_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	author := f.register(t, "Kerem", "kerem@example.com").User

	first := f.createNote(t, author.ID, "first")
	time.Sleep(5 * time.Millisecond)
	second := f.createNote(t, author.ID, "second")

	notes, err := f.notes.List(context.Background(), entity.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)

	_, err = f.notes.List(context.Background(), entity.NoteFilter{Limit: -1})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestNote_UpdateRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Leyla", "leyla@example.com").User
	note := f.createNote(t, author.ID, "Integral")

	title := "Integral II"
	tags := []string{"belirli", "belirsiz"}
	updated, err := f.notes.Update(ctx, note.ID, Requester{UserID: author.ID, Role: entity.RoleUser}, NoteUpdate{
		Title: &title,
		Tags:  &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, tags, updated.Tags)
	assert.Equal(t, note.Description, updated.Description)
	assert.False(t, updated.IsApproved)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	fetched, err := f.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, title, fetched.Title)
}

func TestNote_UpdateReplacesFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Mert", "mert@example.com").User
	note := f.createNote(t, author.ID, "Olasilik")

	replacement := f.uploadPDF(t, author.ID, "olasilik-v2.pdf")
	updated, err := f.notes.Update(ctx, note.ID, Requester{UserID: author.ID}, NoteUpdate{FileURL: &replacement.FileURL})
	require.NoError(t, err)
	assert.Equal(t, replacement.FileURL, updated.FileURL)
	assert.Equal(t, "olasilik-v2.pdf", updated.FileName)

	_, err = f.uploadRepo.GetByURL(ctx, note.FileURL)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, []string{replacement.FileName}, storedFiles(t, f.store.Dir()))
}

// failingNoteUpdates stores notes normally but rejects every update.
type failingNoteUpdates struct {
	persistent.NoteRepository
}

func (r failingNoteUpdates) Update(ctx context.Context, note *entity.Note) error {
	return errors.New("update failed")
}

func TestNote_UpdateFailureReleasesReplacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Nil", "nil@example.com").User
	note := f.createNote(t, author.ID, "Kombinasyon")

	notes := NewNoteUseCase(failingNoteUpdates{f.noteRepo}, f.uploadRepo, f.store, nil, f.publisher, f.validator, f.logger)
	replacement := f.uploadPDF(t, author.ID, "kombinasyon-v2.pdf")
	_, err := notes.Update(ctx, note.ID, Requester{UserID: author.ID}, NoteUpdate{FileURL: &replacement.FileURL})
	require.Error(t, err)

	upload, err := f.uploadRepo.GetByURL(ctx, replacement.FileURL)
	require.NoError(t, err)
	assert.False(t, upload.Claimed())

	stored, err := f.notes.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.FileURL, stored.FileURL)

	removed, err := f.uploads.SweepOrphans(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = f.uploadRepo.GetByURL(ctx, replacement.FileURL)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestNote_UpdateAndDeleteAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Nazlı", "nazli@example.com").User
	stranger := f.register(t, "Onur", "onur@example.com").User
	admin := f.makeAdmin(t, f.register(t, "Admin", "admin@example.com").User.ID)
	note := f.createNote(t, author.ID, "Trigonometri")

	title := "hijacked"
	_, err := f.notes.Update(ctx, note.ID, Requester{UserID: stranger.ID, Role: entity.RoleUser}, NoteUpdate{Title: &title})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.notes.Update(ctx, "missing", Requester{UserID: author.ID}, NoteUpdate{Title: &title})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.notes.Delete(ctx, note.ID, Requester{UserID: stranger.ID, Role: entity.RoleUser})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	require.NoError(t, f.notes.Delete(ctx, note.ID, admin))
	_, err = f.notes.Get(ctx, note.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, storedFiles(t, f.store.Dir()))

	err = f.notes.Delete(ctx, note.ID, admin)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestNote_DownloadViewRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "Pelin", "pelin@example.com").User
	note := f.createNote(t, author.ID, "Kimya")

	downloaded, err := f.notes.Download(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, downloaded.Downloads)

	viewed, err := f.notes.View(ctx, note.ID, "viewer")
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.ViewCount)

	rated, err := f.notes.Rate(ctx, note.ID, "u1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.Rating)
	rated, err = f.notes.Rate(ctx, note.ID, "u2", 5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, rated.Rating)
	assert.Equal(t, 2, rated.RatingCount)

	_, err = f.notes.Rate(ctx, note.ID, "u3", 6)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	_, err = f.notes.Download(ctx, "missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestNote_ViewCountedOncePerViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	notes := NewNoteUseCase(f.noteRepo, f.uploadRepo, f.store, redisClient, nil, f.validator, f.logger)
	author := f.register(t, "Rüya", "ruya@example.com").User
	note := f.createNote(t, author.ID, "Biyoloji")

	for i := 0; i < 3; i++ {
		_, err := notes.View(ctx, note.ID, "viewer-1")
		require.NoError(t, err)
	}
	viewed, err := notes.View(ctx, note.ID, "viewer-2")
	require.NoError(t, err)
	assert.Equal(t, 2, viewed.ViewCount)
}
