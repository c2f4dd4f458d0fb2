package cdn

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	departments []models.Department
	users       []models.User
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) CreateUser(*models.User) error { return nil }
func (r *fakeUserRepo) GetUserByUsername(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetUserByEmail(string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeUserRepo) GetUserByID(uint64) (*models.User, error)      { return nil, nil }
func (r *fakeUserRepo) ListActiveUsers() ([]models.User, error)       { return r.users, nil }
func (r *fakeUserRepo) ListDepartments() ([]models.Department, error) { return r.departments, nil }
func (r *fakeUserRepo) UpdateUser(*models.User) error                 { return nil }

// fakeStorage 用路径前缀模拟存在的目录，failPaths 里的路径创建失败
type fakeStorage struct {
	existing  map[string][]storage.ObjectInfo
	failPaths map[string]error
	created   []string
}

var _ storage.StorageService = (*fakeStorage)(nil)

func (s *fakeStorage) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, storage.ErrPathNotFound
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error { return nil }

func (s *fakeStorage) List(ctx context.Context, dirPath string) ([]storage.ObjectInfo, error) {
	entries, ok := s.existing[dirPath]
	if !ok {
		return nil, storage.ErrPathNotFound
	}
	return entries, nil
}

func (s *fakeStorage) EnsureFolder(ctx context.Context, dirPath string) error {
	if err, ok := s.failPaths[dirPath]; ok {
		return err
	}
	s.created = append(s.created, dirPath)
	return nil
}

func (s *fakeStorage) ObjectURL(path string) string { return "https://cdn.example.com/" + path }

func admin() *models.User {
	return &models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
}

func repoWithTargets() *fakeUserRepo {
	return &fakeUserRepo{
		departments: []models.Department{{ID: 1, Name: "销售部"}, {ID: 2, Name: "Λογιστήριο"}},
		users:       []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}},
	}
}

func TestGenerateFoldersRequiresAdmin(t *testing.T) {
	svc := NewCdnService(repoWithTargets(), &fakeStorage{})

	_, err := svc.GenerateFolders(context.Background(), &models.User{ID: 2, Role: models.RoleManager})
	assert.ErrorIs(t, err, xerr.ErrRoleRequired)
}

func TestGenerateFoldersAllSucceed(t *testing.T) {
	store := &fakeStorage{}
	svc := NewCdnService(repoWithTargets(), store)

	result, err := svc.GenerateFolders(context.Background(), admin())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 4, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Contains(t, store.created, "departments/销售部")
	assert.Contains(t, store.created, "users/alice")
}

func TestGenerateFoldersPartialFailure(t *testing.T) {
	store := &fakeStorage{
		failPaths: map[string]error{
			"users/bob": errors.New("storage: upstream timeout"),
		},
	}
	svc := NewCdnService(repoWithTargets(), store)

	result, err := svc.GenerateFolders(context.Background(), admin())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	var failed *FolderResult
	for i := range result.Results {
		if !result.Results[i].Success {
			failed = &result.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "users/bob", failed.Path)
	assert.NotEmpty(t, failed.Error)
}

func TestGenerateFoldersMissingAccessKeyAbortsBatch(t *testing.T) {
	store := &fakeStorage{
		failPaths: map[string]error{
			"departments/销售部": storage.ErrAccessKeyMissing,
		},
	}
	svc := NewCdnService(repoWithTargets(), store)

	_, err := svc.GenerateFolders(context.Background(), admin())
	assert.ErrorIs(t, err, xerr.ErrStorageKeyMissing)
}

func TestGenerateFoldersNoTargets(t *testing.T) {
	svc := NewCdnService(&fakeUserRepo{}, &fakeStorage{})

	_, err := svc.GenerateFolders(context.Background(), admin())
	assert.ErrorIs(t, err, xerr.ErrNoFolderTargets)
}

func TestListDirectory(t *testing.T) {
	store := &fakeStorage{
		existing: map[string][]storage.ObjectInfo{
			"departments/sales": {
				{Path: "departments/sales/q3.pdf", Name: "q3.pdf", Size: 1024},
			},
		},
	}
	svc := NewCdnService(&fakeUserRepo{}, store)

	listing, suggestion, err := svc.ListDirectory(context.Background(), "/departments/sales/")
	require.NoError(t, err)
	assert.Nil(t, suggestion)
	assert.Equal(t, "departments/sales", listing.Path)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "q3.pdf", listing.Entries[0].Name)
}

func TestListDirectoryNotFoundSuggestsParent(t *testing.T) {
	store := &fakeStorage{
		existing: map[string][]storage.ObjectInfo{
			"departments": {},
		},
	}
	svc := NewCdnService(&fakeUserRepo{}, store)

	listing, suggestion, err := svc.ListDirectory(context.Background(), "departments/typo/deep")
	assert.ErrorIs(t, err, xerr.ErrCdnPathNotFound)
	assert.Nil(t, listing)
	require.NotNil(t, suggestion)
	assert.Equal(t, "departments/typo/deep", suggestion.Path)
	// 逐级回退到最近的存在的上级目录
	assert.Equal(t, "departments", suggestion.Suggested)
}

func TestListDirectoryNoExistingParent(t *testing.T) {
	svc := NewCdnService(&fakeUserRepo{}, &fakeStorage{})

	_, suggestion, err := svc.ListDirectory(context.Background(), "ghost/dir")
	assert.ErrorIs(t, err, xerr.ErrCdnPathNotFound)
	require.NotNil(t, suggestion)
	assert.Equal(t, "", suggestion.Suggested)
}

func TestSanitizeSegment(t *testing.T) {
	assert.Equal(t, "a-b", sanitizeSegment("a/b"))
	assert.Equal(t, "a-b", sanitizeSegment(`a\b`))
	assert.Equal(t, "sales", sanitizeSegment("  sales  "))
}
