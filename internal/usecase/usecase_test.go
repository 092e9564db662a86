package usecase

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/testutil"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/jwt"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

// recordingPublisher applies events synchronously and remembers them.
type recordingPublisher struct {
	sync   *SyncPublisher
	events []entity.Activity
}

func (p *recordingPublisher) Publish(ctx context.Context, activity entity.Activity) error {
	p.events = append(p.events, activity)
	return p.sync.Publish(ctx, activity)
}

func (p *recordingPublisher) types() []entity.ActivityType {
	types := make([]entity.ActivityType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	db           *gorm.DB
	userRepo     persistent.UserRepository
	noteRepo     persistent.NoteRepository
	uploadRepo   persistent.UploadRepository
	store        *storage.LocalStore
	validator    *validation.Validator
	logger       *logger.Logger
	publisher    *recordingPublisher
	auth         AuthUseCase
	uploads      UploadUseCase
	notes        NoteUseCase
	categories   CategoryUseCase
	community    CommunityUseCase
	questions    QuestionUseCase
	profiles     ProfileUseCase
	admin        AdminUseCase
	gamification GamificationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)
	v, err := NewValidator()
	require.NoError(t, err)
	log := logger.NewWithWriters(io.Discard, io.Discard)

	userRepo := persistent.NewUserRepository(db)
	noteRepo := persistent.NewNoteRepository(db)
	uploadRepo := persistent.NewUploadRepository(db)
	likeRepo := persistent.NewLikeRepository(db)
	communityRepo := persistent.NewCommunityRepository(db)
	questionRepo := persistent.NewQuestionRepository(db)
	categoryRepo := persistent.NewCategoryRepository(db)

	gamification := NewGamificationUseCase(userRepo, log)
	publisher := &recordingPublisher{sync: NewSyncPublisher(gamification)}
	jwtService := jwt.NewService("test-secret", time.Hour)

	return &fixture{
		db:           db,
		userRepo:     userRepo,
		noteRepo:     noteRepo,
		uploadRepo:   uploadRepo,
		store:        store,
		validator:    v,
		logger:       log,
		publisher:    publisher,
		auth:         NewAuthUseCase(userRepo, jwtService, v, bcrypt.MinCost, log),
		uploads:      NewUploadUseCase(uploadRepo, store, DefaultUploadMaxBytes, time.Hour, log),
		notes:        NewNoteUseCase(noteRepo, uploadRepo, store, nil, publisher, v, log),
		categories:   NewCategoryUseCase(categoryRepo, v, log),
		community:    NewCommunityUseCase(communityRepo, likeRepo, publisher, v, log),
		questions:    NewQuestionUseCase(questionRepo, likeRepo, publisher, v, log),
		profiles:     NewProfileUseCase(userRepo, uploadRepo, store, v, bcrypt.MinCost, log),
		admin:        NewAdminUseCase(userRepo, noteRepo, communityRepo, questionRepo, categoryRepo, publisher, v, log),
		gamification: gamification,
	}
}

func (f *fixture) register(t *testing.T, name, email string) *AuthResult {
	t.Helper()
	result, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return result
}

func (f *fixture) makeAdmin(t *testing.T, userID string) Requester {
	t.Helper()
	require.NoError(t, f.userRepo.SetRole(context.Background(), userID, entity.RoleAdmin))
	return Requester{UserID: userID, Role: entity.RoleAdmin}
}

func (f *fixture) uploadPDF(t *testing.T, uploaderID, name string) *UploadResult {
	t.Helper()
	result, err := f.uploads.Accept(context.Background(), UploadInput{
		Body:         bytes.NewReader(pdfBytes),
		FileName:     name,
		DeclaredType: "application/pdf",
		Size:         int64(len(pdfBytes)),
		Kind:         entity.UploadKindNote,
		UploaderID:   uploaderID,
	})
	require.NoError(t, err)
	return result
}

func (f *fixture) createNote(t *testing.T, authorID, title string) *entity.Note {
	t.Helper()
	upload := f.uploadPDF(t, authorID, title+".pdf")
	note, err := f.notes.Create(context.Background(), authorID, NoteInput{
		Title:   title,
		Subject: entity.SubjectMatematik,
		Grade:   entity.Grade12,
		Tags:    []string{"türev"},
		FileURL: upload.FileURL,
	})
	require.NoError(t, err)
	return note
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
