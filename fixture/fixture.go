// Package fixture is a Generator that serves roadmaps and expansions from a
// YAML file instead of a generative model. It backs local runs and tests
// of the reference server.
package fixture

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/meikuraledutech/ideagraph"
	"gopkg.in/yaml.v3"
)

// ParentRef in an expansion edge stands for the node being expanded.
const ParentRef = "$parent"

// File is the YAML document layout.
type File struct {
	Roadmaps   []Roadmap   `yaml:"roadmaps" validate:"dive"`
	Expansions []Expansion `yaml:"expansions" validate:"dive"`
}

// Roadmap is the initial graph of one concept.
type Roadmap struct {
	Concept           string `yaml:"concept" validate:"required,min=2"`
	ideagraph.Roadmap `yaml:",inline"`
}

// Expansion is the subgraph returned when a node with label Parent is expanded.
type Expansion struct {
	Parent            string `yaml:"parent" validate:"required"`
	ideagraph.Roadmap `yaml:",inline"`
}

// Generator implements ideagraph.Generator.
type Generator struct {
	roadmaps   map[string]*ideagraph.Roadmap
	expansions map[string]*ideagraph.Subgraph
}

var validate = validator.New()

// Load reads and validates a fixture file.
func Load(path string) (*Generator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Generator from YAML.
func Parse(data []byte) (*Generator, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("fixture: invalid: %w", err)
	}

	g := &Generator{
		roadmaps:   make(map[string]*ideagraph.Roadmap, len(f.Roadmaps)),
		expansions: make(map[string]*ideagraph.Subgraph, len(f.Expansions)),
	}
	for i := range f.Roadmaps {
		r := f.Roadmaps[i]
		g.roadmaps[ideagraph.Slug(r.Concept)] = &r.Roadmap
	}
	for i := range f.Expansions {
		x := f.Expansions[i]
		g.expansions[ideagraph.Slug(x.Parent)] = &x.Roadmap
	}
	return g, nil
}

// Generate returns the fixture roadmap of concept. Unknown concepts get a
// single origin node.
func (g *Generator) Generate(ctx context.Context, concept string) (*ideagraph.Roadmap, error) {
	if r, ok := g.roadmaps[ideagraph.Slug(concept)]; ok {
		return r, nil
	}
	return &ideagraph.Roadmap{
		Nodes: []ideagraph.WireNode{{ID: "1", Label: concept, Type: string(ideagraph.NodeOrigin)}},
		Edges: []ideagraph.WireEdge{},
	}, nil
}

// Expand returns the fixture subgraph of the parent node's label. Node ids
// are prefixed with the parent id so repeated expansions stay distinct,
// and ParentRef endpoints resolve to the parent id. Unknown parents yield
// an empty subgraph.
func (g *Generator) Expand(ctx context.Context, req ideagraph.ExpandRequest) (*ideagraph.Subgraph, error) {
	x, ok := g.expansions[ideagraph.Slug(req.ParentNode)]
	if !ok {
		return &ideagraph.Subgraph{Nodes: []ideagraph.WireNode{}, Edges: []ideagraph.WireEdge{}}, nil
	}

	resolve := func(id ideagraph.WireID) ideagraph.WireID {
		if id == ParentRef {
			return ideagraph.WireID(req.ParentID)
		}
		return ideagraph.WireID(req.ParentID + "." + string(id))
	}

	out := &ideagraph.Subgraph{
		Nodes: make([]ideagraph.WireNode, 0, len(x.Nodes)),
		Edges: make([]ideagraph.WireEdge, 0, len(x.Edges)),
	}
	for _, n := range x.Nodes {
		n.ID = resolve(n.ID)
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range x.Edges {
		e.Source = resolve(e.Source)
		e.Target = resolve(e.Target)
		out.Edges = append(out.Edges, e)
	}
	return out, nil
}
