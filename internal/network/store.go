package network

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Network receives converted transformers.
type Network interface {
	AddTwoWindingsTransformer(t TwoWindingsTransformer) error
	AddThreeWindingsTransformer(t ThreeWindingsTransformer) error
}

// RegulatingControlMapping receives the regulation of the tap changers of
// a transformer. Either argument is zero when that tap changer is absent.
type RegulatingControlMapping interface {
	Add(transformerID string, ratio, phase RegulatingData)
}

// TransformerRegulation is one entry recorded by Store.Add.
type TransformerRegulation struct {
	TransformerID string         `yaml:"transformerId"`
	Ratio         RegulatingData `yaml:"ratio,omitempty"`
	Phase         RegulatingData `yaml:"phase,omitempty"`
}

// Store is an in-memory Network and RegulatingControlMapping that keeps
// insertion order and serializes to YAML. It is not safe for concurrent use.
type Store struct {
	Version                   string                     `yaml:"version"`
	TwoWindingsTransformers   []TwoWindingsTransformer   `yaml:"twoWindingsTransformers,omitempty"`
	ThreeWindingsTransformers []ThreeWindingsTransformer `yaml:"threeWindingsTransformers,omitempty"`
	Regulations               []TransformerRegulation    `yaml:"regulations,omitempty"`

	ids map[string]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{Version: "1", ids: map[string]struct{}{}}
}

// AddTwoWindingsTransformer implements Network.
func (s *Store) AddTwoWindingsTransformer(t TwoWindingsTransformer) error {
	if err := s.claim(t.ID); err != nil {
		return err
	}

	s.TwoWindingsTransformers = append(s.TwoWindingsTransformers, t)

	return nil
}

// AddThreeWindingsTransformer implements Network.
func (s *Store) AddThreeWindingsTransformer(t ThreeWindingsTransformer) error {
	if err := s.claim(t.ID); err != nil {
		return err
	}

	s.ThreeWindingsTransformers = append(s.ThreeWindingsTransformers, t)

	return nil
}

func (s *Store) claim(id string) error {
	if id == "" {
		return fmt.Errorf("transformer without id")
	}

	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}

	if _, ok := s.ids[id]; ok {
		return fmt.Errorf("duplicate transformer %q", id)
	}

	s.ids[id] = struct{}{}

	return nil
}

// Add implements RegulatingControlMapping. Entries without any tap changer
// are dropped.
func (s *Store) Add(transformerID string, ratio, phase RegulatingData) {
	if ratio.IsZero() && phase.IsZero() {
		return
	}

	s.Regulations = append(s.Regulations, TransformerRegulation{
		TransformerID: transformerID,
		Ratio:         ratio,
		Phase:         phase,
	})
}

// Len returns the number of transformers in the store.
func (s *Store) Len() int {
	return len(s.TwoWindingsTransformers) + len(s.ThreeWindingsTransformers)
}

// Marshal serializes the store to YAML.
func (s *Store) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// WriteFile writes the store to path, creating its directory if needed.
func (s *Store) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write network file %s: %w", path, err)
	}

	return nil
}
