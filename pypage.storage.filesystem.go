package pypage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Filesystem store constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	filesystemInvalidChars    = "\\:*?\"<>|\x00"
	filesystemParentDir       = ".."
)

// FilesystemStore serves template files from a directory tree.
// A template's name is its slash-separated path relative to the root,
// e.g. "pages/index.html". Files are stored verbatim.
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// FilesystemStoreDriver is the driver for creating FilesystemStore instances.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a new FilesystemStore. The connection string is the root directory.
func (d *FilesystemStoreDriver) Open(connectionString string) (TemplateStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a store rooted at root.
// The root directory is created if it doesn't exist.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, NewConfigError(ErrMsgInvalidStoreRoot)
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewStoreIOError(root, err)
	}
	return &FilesystemStore{root: root}, nil
}

// Root returns the store's root directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// Get reads a template file.
func (s *FilesystemStore) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			return nil, NewTemplateNotFoundError(name)
		}
		return nil, NewStoreIOError(name, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, NewStoreIOError(name, err)
	}

	return &StoredTemplate{
		Name:      name,
		Source:    string(data),
		UpdatedAt: info.ModTime(),
	}, nil
}

// Save writes a template file, creating parent directories as needed.
func (s *FilesystemStore) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tmpl == nil {
		return NewInvalidTemplateNameError("")
	}
	filePath, err := s.pathFor(tmpl.Name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.MkdirAll(filepath.Dir(filePath), FilesystemDirPermissions); err != nil {
		return NewStoreIOError(tmpl.Name, err)
	}
	if err := os.WriteFile(filePath, []byte(tmpl.Source), FilesystemFilePermissions); err != nil {
		return NewStoreIOError(tmpl.Name, err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return NewStoreIOError(tmpl.Name, err)
	}
	tmpl.UpdatedAt = info.ModTime()
	return nil
}

// Delete removes a template file.
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	filePath, err := s.pathFor(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewTemplateNotFoundError(name)
		}
		return NewStoreIOError(name, err)
	}
	return nil
}

// List returns the names of all regular files below the root.
func (s *FilesystemStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, NewStoreIOError(s.root, err)
	}

	sort.Strings(names)
	return names, nil
}

// Exists checks if a template file exists.
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.Get(ctx, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrTemplateNotFound) {
		return false, nil
	}
	return false, err
}

// Close marks the store closed. Files on disk are left untouched.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// pathFor maps a template name to a file below the root, rejecting names
// that are absolute or would escape the root.
func (s *FilesystemStore) pathFor(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, filesystemInvalidChars) || path.IsAbs(name) {
		return "", NewInvalidTemplateNameError(name)
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == filesystemParentDir {
			return "", NewInvalidTemplateNameError(name)
		}
	}
	return filepath.Join(s.root, filepath.FromSlash(path.Clean(name))), nil
}
