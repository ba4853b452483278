package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts_readme.md
var promptsReadme []byte

// promptSpec is a built-in template and the number of %s verbs an edited
// copy must keep.
type promptSpec struct {
	text         string
	placeholders int
}

var builtinPrompts = map[string]promptSpec{
	driven.PromptDocumentQA: {text: driven.DefaultDocumentQAPrompt, placeholders: 2},
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	spec, ok := builtinPrompts[name]
	return spec.text, ok
}

// PromptStore serves templates from <dir>/<name>.txt. A missing, empty or
// malformed file falls back to the built-in template.
//
// Nothing touches the disk until the first Load, which creates the
// directory, the default files and a README.
type PromptStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string

	initOnce sync.Once
	initErr  error
}

// NewPromptStore creates a store rooted at dir, or ~/.docchat/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docchat", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template for name. Unknown names are an error.
func (s *PromptStore) Load(name string) (string, error) {
	spec, ok := builtinPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return spec.text, nil
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt := s.read(name, spec)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent Load may have filled the slot first.
	if cached, ok := s.cache[name]; ok {
		return cached, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// read loads the file for name, falling back to spec on any problem.
func (s *PromptStore) read(name string, spec promptSpec) string {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("read prompt %s: %v", name, err)
		}
		return spec.text
	}

	prompt := strings.TrimSpace(string(data))
	switch {
	case prompt == "":
		return spec.text
	case strings.Count(prompt, "%s") != spec.placeholders:
		logger.Warn("prompt %s needs exactly %d %%s placeholders, using the built-in one",
			name, spec.placeholders)
		return spec.text
	}
	return prompt
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// initialise writes the directory, the default templates and the README.
// Existing files are left alone.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("%v", s.initErr)
		return
	}

	files := map[string][]byte{"README.md": promptsReadme}
	for name, spec := range builtinPrompts {
		files[name+".txt"] = []byte(spec.text + "\n")
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.initErr = err
			logger.Warn("%v", err)
			return
		}
	}
}

func writeIfMissing(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
