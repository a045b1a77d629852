// Package store archives finished signatures through gdata so they survive
// restarts on desktop and mobile alike.
package store

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"signpad/internal/signature"
)

const (
	signaturesObject = "signatures"
	indexProperty    = "index"
	keyPrefix        = "sig_"
)

// ErrNotFound is returned by Load for an unknown name.
var ErrNotFound = errors.New("store: signature not found")

// Entry describes one archived signature.
type Entry struct {
	Name     string    `yaml:"name"`
	MIMEType string    `yaml:"mimeType"`
	Size     int       `yaml:"size"`
	SavedAt  time.Time `yaml:"savedAt"`
	Source   string    `yaml:"source,omitempty"`
}

// Store is safe for concurrent use; the collector saves from connection
// goroutines.
type Store struct {
	manager *gdata.Manager // nil: memory only
	mu      sync.Mutex
	index   []Entry
	memory  map[string][]byte
}

// Open creates a gdata backed store for appName.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return New(m)
}

// New wraps an existing manager. A nil manager keeps everything in memory.
func New(m *gdata.Manager) (*Store, error) {
	s := &Store{manager: m, memory: make(map[string][]byte)}
	if m == nil || !m.ObjectPropExists(signaturesObject, indexProperty) {
		return s, nil
	}
	data, err := m.LoadObjectProp(signaturesObject, indexProperty)
	if err != nil {
		return s, fmt.Errorf("load index: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.index); err != nil {
		return s, fmt.Errorf("parse index: %w", err)
	}
	return s, nil
}

func propKey(name string) string {
	return keyPrefix + strings.TrimSuffix(name, signature.PNGExtension)
}

// Save archives the file. source tags where it came from, e.g. a peer
// address; it may be empty.
func (s *Store) Save(file signature.File, source string) error {
	if !signature.ValidName(file.Name) {
		return fmt.Errorf("store: invalid name %q", file.Name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		Name:     file.Name,
		MIMEType: file.MIMEType,
		Size:     file.Size(),
		SavedAt:  time.Now().UTC(),
		Source:   source,
	}
	index := append(removeEntry(s.index, file.Name), entry)

	if s.manager == nil {
		s.memory[file.Name] = append([]byte(nil), file.Data...)
		s.index = index
		return nil
	}
	if err := s.manager.SaveObjectProp(signaturesObject, propKey(file.Name), file.Data); err != nil {
		return fmt.Errorf("save %s: %w", file.Name, err)
	}
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := s.manager.SaveObjectProp(signaturesObject, indexProperty, data); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	s.index = index
	log.Printf("[STORE] archived %s (%d bytes)", file.Name, entry.Size)
	return nil
}

// Load returns an archived signature by file name.
func (s *Store) Load(name string) (signature.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := findEntry(s.index, name)
	if !ok {
		return signature.File{}, ErrNotFound
	}
	var data []byte
	if s.manager == nil {
		data = append([]byte(nil), s.memory[name]...)
	} else {
		var err error
		data, err = s.manager.LoadObjectProp(signaturesObject, propKey(name))
		if err != nil {
			return signature.File{}, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return signature.File{Name: entry.Name, MIMEType: entry.MIMEType, Data: data}, nil
}

// List returns the archive index, most recently saved first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.index))
	for i := len(s.index) - 1; i >= 0; i-- {
		out = append(out, s.index[i])
	}
	return out
}

func findEntry(index []Entry, name string) (Entry, bool) {
	for _, e := range index {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func removeEntry(index []Entry, name string) []Entry {
	out := make([]Entry, 0, len(index)+1)
	for _, e := range index {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}
