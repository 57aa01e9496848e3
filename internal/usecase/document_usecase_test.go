package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"healthvault/internal/delivery/dto"
	"healthvault/internal/delivery/http/middleware"
	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeDocumentRepo struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*entity.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{documents: make(map[uuid.UUID]*entity.Document)}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	clone := *document
	r.documents[document.ID] = &clone
	return nil
}

func (r *fakeDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDocumentRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Document
	for _, d := range r.documents {
		if d.OwnerID == ownerID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (r *fakeDocumentRepo) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok || d.OwnerID != ownerID {
		return 0, nil
	}
	delete(r.documents, id)
	return 1, nil
}

type documentTestEnv struct {
	usecase      DocumentUsecase
	documentRepo *fakeDocumentRepo
	pinner       *fakePinner
	audit        *fakeAuditService
	ownerID      uuid.UUID
	ctx          context.Context
}

func newDocumentTestEnv(t *testing.T) *documentTestEnv {
	t.Helper()
	documentRepo := newFakeDocumentRepo()
	pinner := &fakePinner{}
	audit := &fakeAuditService{}
	ownerID := uuid.New()

	return &documentTestEnv{
		usecase:      NewDocumentUsecase(quietLogger(), documentRepo, pinner, audit),
		documentRepo: documentRepo,
		pinner:       pinner,
		audit:        audit,
		ownerID:      ownerID,
		ctx:          middleware.WithIdentity(context.Background(), ownerID, entity.RolePatient),
	}
}

func TestUploadDocument(t *testing.T) {
	env := newDocumentTestEnv(t)
	env.pinner.hash = "bafydochash"

	document, err := env.usecase.Upload(env.ctx, &dto.UploadDocumentRequest{
		Name:     "Blood panel",
		Type:     "lab_report",
		TestDate: "2026-08-20",
	}, "blood.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	require.Equal(t, "bafydochash", document.IpfsHash)
	require.Equal(t, "https://gateway.test/ipfs/bafydochash", document.FileURL)
	require.NotNil(t, document.TestDate)
	require.True(t, env.audit.has(entity.AuditActionDocumentUpload))
}

func TestUploadDocumentAbortsWhenPinFails(t *testing.T) {
	env := newDocumentTestEnv(t)
	env.pinner.err = errors.New("pinning service unavailable")

	_, err := env.usecase.Upload(env.ctx, &dto.UploadDocumentRequest{
		Name: "Blood panel",
		Type: "lab_report",
	}, "blood.pdf", strings.NewReader("pdf-bytes"))
	require.ErrorIs(t, err, ErrUploadFailed)

	// No record without a pinned file
	documents, repoErr := env.documentRepo.FindByOwnerID(context.Background(), env.ownerID)
	require.NoError(t, repoErr)
	require.Empty(t, documents)
}

func TestUploadDocumentRejectsBadTestDate(t *testing.T) {
	env := newDocumentTestEnv(t)

	_, err := env.usecase.Upload(env.ctx, &dto.UploadDocumentRequest{
		Name:     "Blood panel",
		Type:     "lab_report",
		TestDate: "20/08/2026",
	}, "blood.pdf", strings.NewReader("pdf-bytes"))
	require.ErrorIs(t, err, ErrInvalidDateFormat)
	require.Equal(t, 0, env.pinner.calls)
}

func TestDeleteDocumentOwnerOnly(t *testing.T) {
	env := newDocumentTestEnv(t)

	document, err := env.usecase.Upload(env.ctx, &dto.UploadDocumentRequest{
		Name: "Blood panel",
		Type: "lab_report",
	}, "blood.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)

	// Someone else's delete matches nothing
	otherCtx := middleware.WithIdentity(context.Background(), uuid.New(), entity.RolePatient)
	err = env.usecase.Delete(otherCtx, document.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, env.usecase.Delete(env.ctx, document.ID))
	require.True(t, env.audit.has(entity.AuditActionDocumentDelete))

	err = env.usecase.Delete(env.ctx, document.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}
