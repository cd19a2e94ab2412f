// Package service contains the layer runtime for the deck server: live
// layer instances, their update cycles and the change events they emit.
package service

import (
	"fmt"
	"sync"

	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

// LayerInfo is a read-only snapshot of one live layer instance.
type LayerInfo struct {
	ID            string              `json:"id" doc:"Layer instance id" example:"scatter-1"`
	Type          string              `json:"type" doc:"Layer type name" example:"scatterplot"`
	InstanceCount int                 `json:"instanceCount" doc:"Derived or explicit instance count"`
	LastResult    *layer.UpdateResult `json:"lastResult,omitempty" doc:"Result of the most recent update cycle"`
}

// LayerService manages live layer instances. Layer instances themselves
// are single-threaded; the service serializes update cycles per
// process so no instance's cycle is ever interleaved with another for
// the same instance.
type LayerService struct {
	mu          sync.RWMutex
	descriptors map[string]*layer.Descriptor
	layers      map[string]*layer.Layer
	results     map[string]*layer.UpdateResult
	types       map[string]string
	registry    *layer.Registry
	bus         *EventBus
}

// NewLayerService creates a layer runtime over the given layer-type
// descriptors. A nil bus uses DefaultBus.
func NewLayerService(descriptors map[string]*layer.Descriptor, bus *EventBus) *LayerService {
	if descriptors == nil {
		descriptors = map[string]*layer.Descriptor{}
	}
	if bus == nil {
		bus = DefaultBus
	}
	return &LayerService{
		descriptors: descriptors,
		layers:      make(map[string]*layer.Layer),
		results:     make(map[string]*layer.UpdateResult),
		types:       make(map[string]string),
		registry:    layer.NewRegistry(),
		bus:         bus,
	}
}

// RegisterDescriptor adds a layer type at runtime. Types with custom
// comparators are registered here rather than loaded from YAML.
func (s *LayerService) RegisterDescriptor(d *layer.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.descriptors[d.Name]; exists {
		return fmt.Errorf("layer type %q already registered", d.Name)
	}
	s.descriptors[d.Name] = d
	return nil
}

// Types returns the known layer type names.
func (s *LayerService) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.descriptors))
	for name := range s.descriptors {
		out = append(out, name)
	}
	return out
}

// Create instantiates a layer of the named type and runs its first
// update cycle with the given props.
func (s *LayerService) Create(id, typeName string, props layer.Props) (*layer.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, ok := s.descriptors[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown layer type %q", typeName)
	}
	l, err := layer.New(id, desc, s.registry)
	if err != nil {
		return nil, err
	}
	result, err := l.Update(props)
	if err != nil {
		l.Destroy()
		return nil, err
	}

	s.layers[id] = l
	s.results[id] = result
	s.types[id] = typeName
	s.bus.Publish(Event{Resource: "layers", Action: "created", ID: id, NeedsRerender: result.NeedsRerender})
	return result, nil
}

// Update runs one update cycle with a full replacement prop set.
func (s *LayerService) Update(id string, props layer.Props) (*layer.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, props)
}

// Patch runs one update cycle with the given keys merged over the
// layer's current props.
func (s *LayerService) Patch(id string, patch layer.Props) (*layer.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[id]
	if !ok {
		return nil, fmt.Errorf("layer %q not found", id)
	}
	next := l.Props().Clone()
	for k, v := range patch {
		next[k] = v
	}
	return s.update(id, next)
}

// BindData attaches a data sequence to the layer, replacing its data
// prop. The new identity invalidates every attribute.
func (s *LayerService) BindData(id string, seq layer.Sequence) (*layer.UpdateResult, error) {
	return s.Patch(id, layer.Props{layer.PropData: seq})
}

func (s *LayerService) update(id string, props layer.Props) (*layer.UpdateResult, error) {
	l, ok := s.layers[id]
	if !ok {
		return nil, fmt.Errorf("layer %q not found", id)
	}
	result, err := l.Update(props)
	if err != nil {
		return nil, err
	}
	s.results[id] = result
	s.bus.Publish(Event{Resource: "layers", Action: "updated", ID: id, NeedsRerender: result.NeedsRerender})
	return result, nil
}

// Get returns a snapshot of one layer instance.
func (s *LayerService) Get(id string) (LayerInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.layers[id]
	if !ok {
		return LayerInfo{}, false
	}
	return s.info(l), true
}

// List returns snapshots of all live layer instances.
func (s *LayerService) List() map[string]LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]LayerInfo, len(s.layers))
	for id, l := range s.layers {
		out[id] = s.info(l)
	}
	return out
}

// Delete destroys a layer instance, releasing its id.
func (s *LayerService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[id]
	if !ok {
		return fmt.Errorf("layer %q not found", id)
	}
	l.Destroy()
	delete(s.layers, id)
	delete(s.results, id)
	delete(s.types, id)
	s.bus.Publish(Event{Resource: "layers", Action: "deleted", ID: id})
	return nil
}

func (s *LayerService) info(l *layer.Layer) LayerInfo {
	return LayerInfo{
		ID:            l.ID(),
		Type:          s.types[l.ID()],
		InstanceCount: l.InstanceCount(),
		LastResult:    s.results[l.ID()],
	}
}
