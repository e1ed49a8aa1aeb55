// Package scene builds entities from declarative YAML descriptions using the
// named component factories of an ecs.Registry.
//
// A scene document looks like:
//
//	state: gameplay
//	entities:
//	  - name: player
//	    components:
//	      position: {x: 0, y: 0}
//	      health: 100
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/zeusecs/pkg/ecs"
	"github.com/zeusync/zeusecs/pkg/observability/log"
)

var ErrInvalidDocument = errors.New("scene: invalid document")

// Name is attached to every entity whose description carries a name.
type Name string

type Document struct {
	State    string       `yaml:"state"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec keeps its components as a raw node so they are built in the
// order they are written.
type EntitySpec struct {
	Name       string    `yaml:"name"`
	Components yaml.Node `yaml:"components"`
}

// Parse decodes a scene document. Empty input is an empty scene.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// Load parses a scene from r and spawns it into reg.
func Load(reg *ecs.Registry, r io.Reader) (*ecs.EntityList, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return doc.Spawn(reg)
}

func LoadFile(reg *ecs.Registry, path string) (*ecs.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	entities, err := Load(reg, f)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return entities, nil
}

// Spawn creates one entity per description and attaches its components.
// If anything fails, every entity spawned by this call is killed again and
// the state tag is not touched.
func (d *Document) Spawn(reg *ecs.Registry) (*ecs.EntityList, error) {
	if _, err := ecs.RegisterComponent[Name](reg); err != nil && !errors.Is(err, ecs.ErrComponentAlreadyRegistered) {
		return nil, err
	}

	entities := ecs.NewEntityList()
	for i, desc := range d.Entities {
		e := reg.SpawnEntity()
		entities.Add(e)

		if err := desc.build(reg, e); err != nil {
			rollback(reg, entities)
			if desc.Name != "" {
				return nil, fmt.Errorf("entity %d (%s): %w", i, desc.Name, err)
			}
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
	}

	if d.State != "" {
		reg.SetState(d.State)
	}
	reg.Logger().Info("scene spawned",
		log.Int("entities", entities.Len()),
		log.String("state", reg.State()),
	)
	return entities, nil
}

func (s *EntitySpec) build(reg *ecs.Registry, e ecs.Entity) error {
	if s.Name != "" {
		if _, err := ecs.AddComponent(reg, e, Name(s.Name)); err != nil {
			return err
		}
	}

	node := &s.Components
	switch {
	case node.Kind == 0, node.ShortTag() == "!!null":
		return nil
	case node.Kind != yaml.MappingNode:
		return fmt.Errorf("%w: components must be a mapping (line %d)", ErrInvalidDocument, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if err := reg.AddComponentByName(key.Value, e, value.Decode); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
	}
	return nil
}

func rollback(reg *ecs.Registry, entities *ecs.EntityList) {
	spawned := entities.Slice()
	// kill in reverse so the free list hands the ids back in spawn order
	for i := len(spawned) - 1; i >= 0; i-- {
		if err := reg.KillEntity(spawned[i]); err != nil {
			reg.Logger().Warn("scene rollback", log.Stringer("entity", spawned[i]), log.Error(err))
		}
	}
	entities.Clear()
}
