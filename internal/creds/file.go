package creds

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore — файловое хранилище токенов: пара переживает перезапуск процесса
// (аналог браузерного session storage). Запись атомарная: временный файл
// в той же директории + rename. Права 0600.
type FileStore struct {
	mu   sync.RWMutex
	path string
	pair Pair
}

// NewFileStore загружает пару из path, если файл существует.
// Битый файл считается отсутствием сессии, а не фатальной ошибкой.
func NewFileStore(path string) (*FileStore, error) {
	const op = "creds.file.NewFileStore"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p Pair
	if err := json.Unmarshal(data, &p); err != nil {
		return s, nil
	}
	s.pair = p

	return s, nil
}

func (s *FileStore) Pair() Pair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pair
}

func (s *FileStore) SetPair(p Pair) error {
	const op = "creds.file.SetPair"

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Refresh == "" {
		p.Refresh = s.pair.Refresh
	}

	if err := s.persist(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.pair = p

	return nil
}

func (s *FileStore) Clear() error {
	const op = "creds.file.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// persist пишет пару атомарно; вызывается под mu.
func (s *FileStore) persist(p Pair) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}
