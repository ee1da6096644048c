package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaiwa-ai/kaiwa/internal/model/contract"
)

var ErrToolNotFound = errors.New("tool not found")

// Tool represents one executable capability exposed to the model.
// Implementations are registered once at startup and never mutated.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry holds all available tools in registration order, which is
// the order their schemas are sent to the API.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	name := normalizeName(t.Name())
	if name == "" {
		panic("tool: empty tool name")
	}
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrToolNotFound)
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns each tool's definition plus its risk
// classification, in registration order.
func (r *Registry) Descriptors() []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		risk := RiskLow
		if provider, ok := t.(RiskProvider); ok {
			risk = normalizeRisk(provider.Risk())
		}
		descriptors = append(descriptors, Descriptor{
			Definition: contract.ToolDef{
				Name:        name,
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
			Risk: risk,
		})
	}
	return descriptors
}

// Definitions returns the tool schemas included in every API request.
func (r *Registry) Definitions() []contract.ToolDef {
	descriptors := r.Descriptors()
	defs := make([]contract.ToolDef, len(descriptors))
	for i, d := range descriptors {
		defs[i] = d.Definition
	}
	return defs
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
