package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// PhotoStore はローカルディレクトリにプロフィール写真を保存します。
type PhotoStore struct {
	dir        string
	publicPath string
}

// NewPhotoStore は PhotoStore を生成し、保存先ディレクトリを作成します。
// publicPath は静的配信されるパスの接頭辞です (例: /api/profiles)。
func NewPhotoStore(dir, publicPath string) (*PhotoStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("local: photo directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local: create photo directory %s: %w", dir, err)
	}
	return &PhotoStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

// Dir は保存先ディレクトリを返します。
func (s *PhotoStore) Dir() string {
	return s.dir
}

// Save は一時ファイルへ書き込んだ後に name へリネームし、公開パスを返します。
func (s *PhotoStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("local: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("local: write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("local: close photo: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("local: relocate photo: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove は保存済みの写真を削除します。存在しない場合はエラーにしません。
func (s *PhotoStore) Remove(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local: remove photo: %w", err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("local: invalid photo name %q", name)
	}
	return nil
}
