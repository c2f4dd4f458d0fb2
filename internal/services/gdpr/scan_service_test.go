package gdpr

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanRepo struct {
	created []models.ScanResult
}

var _ repositories.ScanResultRepository = (*fakeScanRepo)(nil)

func (r *fakeScanRepo) Create(result *models.ScanResult) error {
	result.ID = uint64(len(r.created) + 1)
	r.created = append(r.created, *result)
	return nil
}

func (r *fakeScanRepo) FindLatestByPath(string, time.Time) (*models.ScanResult, error) {
	return nil, nil
}

func (r *fakeScanRepo) FindInRange(start, end time.Time) ([]models.ScanResult, error) {
	return nil, nil
}

// fakeContentStorage 按路径返回固定内容
type fakeContentStorage struct {
	files map[string][]byte
}

var _ storage.StorageService = (*fakeContentStorage)(nil)

func (s *fakeContentStorage) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	return nil
}

func (s *fakeContentStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	content, ok := s.files[path]
	if !ok {
		return nil, storage.ErrPathNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *fakeContentStorage) Delete(ctx context.Context, path string) error { return nil }

func (s *fakeContentStorage) List(ctx context.Context, dirPath string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (s *fakeContentStorage) EnsureFolder(ctx context.Context, dirPath string) error { return nil }

func (s *fakeContentStorage) ObjectURL(path string) string { return path }

func newScanFixture(files map[string][]byte) (ScanService, *fakeScanRepo) {
	repo := &fakeScanRepo{}
	svc := NewScanService(
		NewScanner(),
		repo,
		&fakeContentStorage{files: files},
		nil,
		&config.Config{},
	)
	return svc, repo
}

func TestScanFilePersistsResult(t *testing.T) {
	svc, repo := newScanFixture(map[string][]byte{
		"docs/contacts.txt": []byte("Επικοινωνία: maria@example.gr"),
	})

	result, err := svc.ScanFile(context.Background(), "docs/contacts.txt")
	require.NoError(t, err)

	assert.True(t, result.HasPersonalData)
	assert.Equal(t, []string{CategoryEmail}, []string(result.PersonalDataTypes))
	assert.Equal(t, models.RiskMedium, result.RiskLevel)
	assert.Equal(t, "contacts.txt", result.FileName)
	assert.Equal(t, "txt", result.FileType)
	assert.Greater(t, result.FileSize, int64(0))
	require.Len(t, repo.created, 1)
}

func TestScanFileCleanContent(t *testing.T) {
	svc, _ := newScanFixture(map[string][]byte{
		"docs/agenda.txt": []byte("下周的会议议程和讨论要点。"),
	})

	result, err := svc.ScanFile(context.Background(), "docs/agenda.txt")
	require.NoError(t, err)

	assert.False(t, result.HasPersonalData)
	assert.Equal(t, models.RiskLow, result.RiskLevel)
	assert.Nil(t, result.ScanErrors)
}

func TestScanFileMissingPath(t *testing.T) {
	svc, repo := newScanFixture(nil)

	_, err := svc.ScanFile(context.Background(), "docs/missing.txt")
	assert.ErrorIs(t, err, xerr.ErrCdnPathNotFound)
	assert.Empty(t, repo.created)
}

func TestScanFileEmptyPath(t *testing.T) {
	svc, _ := newScanFixture(nil)

	_, err := svc.ScanFile(context.Background(), "   ")
	assert.ErrorIs(t, err, xerr.ErrInvalidParams)
}

func TestScanFileUndecodableContentIsHighRisk(t *testing.T) {
	svc, repo := newScanFixture(map[string][]byte{
		"docs/bin.dat": {0x81, 0xD2},
	})

	result, err := svc.ScanFile(context.Background(), "docs/bin.dat")
	require.NoError(t, err)

	assert.True(t, result.HasPersonalData)
	assert.Equal(t, []string{CategoryUnreadable}, []string(result.PersonalDataTypes))
	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	require.NotNil(t, result.ScanErrors)
	require.Len(t, repo.created, 1)
}
