// Package localstore keeps the ledger document in a JSON file on disk.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/MrJamesThe3rd/safespend/internal/ledger"
)

type File struct {
	path string
	mu   sync.Mutex
}

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Load reads the document. A missing file yields an empty ledger with defaults.
func (f *File) Load() (ledger.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := ledger.NewDocument()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}

	if err != nil {
		return ledger.Document{}, fmt.Errorf("reading %s: %w", f.path, err)
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return ledger.Document{}, fmt.Errorf("decoding %s: %w", f.path, err)
	}

	return doc, nil
}

// Save writes doc to a temporary file in the same directory and renames it over the
// previous version.
func (f *File) Save(doc ledger.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}

	return nil
}

// Persister saves the store after changes. Bursts of changes collapse into one write.
type Persister struct {
	file  *File
	store *ledger.Store
	dirty chan struct{}
}

// NewPersister subscribes to store. Nothing is written until Run is called.
func NewPersister(file *File, store *ledger.Store) *Persister {
	p := &Persister{
		file:  file,
		store: store,
		dirty: make(chan struct{}, 1),
	}

	store.Subscribe(p)

	return p
}

func (p *Persister) OnChange(ledger.Change) {
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

// Run writes snapshots until ctx is done, then flushes pending changes once more.
func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			select {
			case <-p.dirty:
				p.flush()
			default:
			}

			return nil
		case <-p.dirty:
			p.flush()
		}
	}
}

func (p *Persister) flush() {
	if err := p.file.Save(p.store.Snapshot()); err != nil {
		slog.Error("failed to save ledger", "path", p.file.Path(), "error", err)
	}
}
