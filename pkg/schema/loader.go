package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store keeps parsed forms keyed by id. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	forms map[string]Form
}

// NewStore builds a store from already parsed forms. Forms without an id or
// with a duplicate id are rejected.
func NewStore(forms ...Form) (*Store, error) {
	store := &Store{forms: make(map[string]Form, len(forms))}
	for _, form := range forms {
		if err := store.add(form, "inline"); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// LoadFS walks fsys and parses every JSON/YAML schema file. When fsys is nil
// the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := NewDocument(SourceFromFS(path), data)
		if err != nil {
			return fmt.Errorf("schema: %s: %w", path, err)
		}
		form, err := Parse(doc)
		if err != nil {
			return err
		}
		if form.ID == "" {
			form.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return store.add(form, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single schema file from disk.
func LoadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	doc, err := NewDocument(SourceFromFile(path), data)
	if err != nil {
		return Form{}, fmt.Errorf("schema: %s: %w", path, err)
	}
	form, err := Parse(doc)
	if err != nil {
		return Form{}, err
	}
	if form.ID == "" {
		form.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return form, nil
}

// Put registers form, replacing any form with the same id.
func (s *Store) Put(form Form) error {
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return fmt.Errorf("schema: form has no id")
	}
	form.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[id] = form
	return nil
}

func (s *Store) add(form Form, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return fmt.Errorf("schema: form from %s has no id", origin)
	}
	if _, exists := s.forms[id]; exists {
		return fmt.Errorf("schema: duplicate form %q (%s)", id, origin)
	}
	s.forms[id] = form
	return nil
}

// Form returns the form registered under id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the stored form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms) == 0
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
