package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/radieske/bet-tracker/internal/ledger"
)

// yamlDocument é o formato do arquivo: uma lista "bets" na ordem do ledger
type yamlDocument struct {
	Bets []record `yaml:"bets"`
}

// YAMLFile guarda o ledger inteiro num arquivo local.
// Cada escrita regrava o arquivo via arquivo temporário + rename.
type YAMLFile struct {
	mu   sync.Mutex
	path string
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

func (s *YAMLFile) LoadAll(ctx context.Context) ([]ledger.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return nil, err
	}
	return decodeRecords(recs)
}

func (s *YAMLFile) Append(ctx context.Context, b ledger.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(recs, toRecord(b)))
}

func (s *YAMLFile) UpdateAt(ctx context.Context, index int, b ledger.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(recs) {
		return outOfRange(index)
	}
	recs[index] = toRecord(b)
	return s.write(recs)
}

func (s *YAMLFile) DeleteAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.read()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(recs) {
		return outOfRange(index)
	}
	recs = append(recs[:index], recs[index+1:]...)
	return s.write(recs)
}

// Ping verifica se o diretório do arquivo existe
func (s *YAMLFile) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *YAMLFile) Close() error { return nil }

// read trata arquivo inexistente como ledger vazio
func (s *YAMLFile) read() ([]record, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, corrupt("parse "+s.path, err)
	}
	return doc.Bets, nil
}

func (s *YAMLFile) write(recs []record) error {
	if recs == nil {
		recs = []record{}
	}
	raw, err := yaml.Marshal(yamlDocument{Bets: recs})
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".bets-*.yaml")
	if err != nil {
		return unavailable("write", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return unavailable("write", err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return unavailable("write", err)
	}
	return nil
}
