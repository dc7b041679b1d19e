package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "relwatch/pkg/logx"
)

// fileStore is a dependency-free persistence backend: one small JSON file
// holding the last-seen tag. Writes go through a temp file + rename so a
// crash mid-write never leaves a half-written state file behind.
type fileStore struct {
	log  logx.Logger
	path string

	mu sync.Mutex
}

type stateFile struct {
	LastRelease string `json:"last_release"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("statestore.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	return &fileStore{log: log, path: path}, nil
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) LoadLastRelease(ctx context.Context) (string, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("state file unreadable, treating as no prior state",
				logx.String("path", s.path), logx.Err(err))
		}
		return "", false, nil
	}

	var st stateFile
	if err := json.Unmarshal(b, &st); err != nil {
		s.log.Warn("state file corrupt, treating as no prior state",
			logx.String("path", s.path), logx.Err(err))
		return "", false, nil
	}
	if strings.TrimSpace(st.LastRelease) == "" {
		return "", false, nil
	}
	return st.LastRelease, true, nil
}

func (s *fileStore) SaveLastRelease(ctx context.Context, tag string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(stateFile{LastRelease: tag})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
