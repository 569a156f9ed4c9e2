// Package domain contains the core domain types for drift analysis.
package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// FileKind discriminates the fact shape extracted from a file.
type FileKind string

const (
	// KindComponent identifies component source files (tsx/jsx/vue and friends).
	KindComponent FileKind = "component"
	// KindStylesheet identifies stylesheet files (css/scss/less).
	KindStylesheet FileKind = "stylesheet"
	// KindMarkup identifies markup files (html/templates).
	KindMarkup FileKind = "markup"
)

// Facts is the tagged union of structured facts extracted from a single file.
// Implementations are value-like and must not be mutated after extraction.
type Facts interface {
	// FileKind returns the discriminator for this fact shape.
	FileKind() FileKind
	// Dependencies returns the paths this file declares as dependencies.
	Dependencies() []string
}

// ComponentDecl describes a single component declaration within a file.
type ComponentDecl struct {
	Name  string   `json:"name"`
	Props []string `json:"props,omitempty"`
}

// ComponentFacts holds facts extracted from a component source file.
type ComponentFacts struct {
	Components        []ComponentDecl `json:"components,omitempty"`
	InlineStyles      int             `json:"inlineStyles,omitempty"`
	Colors            []string        `json:"colors,omitempty"`
	Spacing           []float64       `json:"spacing,omitempty"`
	FontSizes         []string        `json:"fontSizes,omitempty"`
	UnlabeledControls int             `json:"unlabeledControls,omitempty"`
	Imports           []string        `json:"imports,omitempty"`
}

// FileKind returns KindComponent.
func (f *ComponentFacts) FileKind() FileKind { return KindComponent }

// Dependencies returns the declared imports.
func (f *ComponentFacts) Dependencies() []string { return f.Imports }

// StyleFacts holds facts extracted from a stylesheet.
type StyleFacts struct {
	Colors      []string  `json:"colors,omitempty"`
	Spacing     []float64 `json:"spacing,omitempty"`
	FontSizes   []string  `json:"fontSizes,omitempty"`
	FontWeights []string  `json:"fontWeights,omitempty"`
	Imports     []string  `json:"imports,omitempty"`
}

// FileKind returns KindStylesheet.
func (f *StyleFacts) FileKind() FileKind { return KindStylesheet }

// Dependencies returns the declared imports.
func (f *StyleFacts) Dependencies() []string { return f.Imports }

// MarkupFacts holds facts extracted from a markup file.
type MarkupFacts struct {
	ComponentsUsed []string `json:"componentsUsed,omitempty"`
	Images         int      `json:"images,omitempty"`
	ImagesWithAlt  int      `json:"imagesWithAlt,omitempty"`
	// UnlabeledControls counts interactive elements without an accessible label.
	UnlabeledControls int      `json:"unlabeledControls,omitempty"`
	Imports           []string `json:"imports,omitempty"`
}

// FileKind returns KindMarkup.
func (f *MarkupFacts) FileKind() FileKind { return KindMarkup }

// Dependencies returns the declared imports.
func (f *MarkupFacts) Dependencies() []string { return f.Imports }

// factsEnvelope is the serialized form of the Facts union.
type factsEnvelope struct {
	Kind  FileKind        `json:"kind"`
	Facts json.RawMessage `json:"facts"`
}

// EncodeFacts serializes a Facts value with its kind discriminator.
func EncodeFacts(f Facts) ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal facts")
	}
	return json.Marshal(factsEnvelope{Kind: f.FileKind(), Facts: raw})
}

// DecodeFacts deserializes a Facts value produced by EncodeFacts.
func DecodeFacts(data []byte) (Facts, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var env factsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal facts envelope")
	}

	var f Facts
	switch env.Kind {
	case KindComponent:
		f = &ComponentFacts{}
	case KindStylesheet:
		f = &StyleFacts{}
	case KindMarkup:
		f = &MarkupFacts{}
	default:
		return nil, zerr.With(ErrUnknownFileKind, "kind", string(env.Kind))
	}

	if err := json.Unmarshal(env.Facts, f); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal facts")
	}
	return f, nil
}
