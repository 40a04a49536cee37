package style

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"artify/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Definition pairs a style identifier with its display name and the
// instruction sent to the model.
type Definition struct {
	ID     string `json:"id" mapstructure:"-"`
	Name   string `json:"name" mapstructure:"name"`
	Prompt string `json:"-" mapstructure:"prompt"`
}

// Registry is an immutable set of style definitions. It is built once at
// startup and shared read-only.
type Registry struct {
	styles map[string]Definition
	order  []string
}

func NewRegistry(definitions ...Definition) (*Registry, error) {
	r := &Registry{styles: make(map[string]Definition, len(definitions))}

	for _, d := range definitions {
		id := normalize(d.ID)
		if id == "" {
			return nil, errors.New("style without identifier")
		}
		if strings.TrimSpace(d.Prompt) == "" {
			return nil, fmt.Errorf("style %q has no prompt", id)
		}
		if _, ok := r.styles[id]; ok {
			return nil, fmt.Errorf("duplicate style %q", id)
		}

		d.ID = id
		if d.Name == "" {
			d.Name = id
		}

		log.Debug().Str("style", id).Msg("adding style to registry")
		r.styles[id] = d
		r.order = append(r.order, id)
	}

	return r, nil
}

func Defaults() []Definition {
	return []Definition{
		{
			ID:   "sketch",
			Name: "Outline Sketch",
			Prompt: "Transform the given image into a detailed black and white outline sketch. " +
				"The main subject of the image should be clearly visible with clean, precise lines. " +
				"The sketch should capture essential details while maintaining a minimalist approach. " +
				"The background should be simplified to complement the main subject without overwhelming it.",
		},
		{
			ID:     "cartoon",
			Name:   "Cartoon",
			Prompt: "Transform the given image into a cartoon style.",
		},
		{
			ID:     "ghibli",
			Name:   "Studio Ghibli",
			Prompt: "Transform the given image into the Ghibli style.",
		},
	}
}

// Default returns a registry holding the built-in styles.
func Default() *Registry {
	r, err := NewRegistry(Defaults()...)
	if err != nil {
		panic(err)
	}
	return r
}

// FromConfig builds a registry from the built-in styles plus any
// [styles.<id>] tables in the configuration. Configured styles are appended
// in key order and may not redefine a built-in one.
func FromConfig() (*Registry, error) {
	var configured map[string]Definition
	if err := viper.UnmarshalKey("styles", &configured); err != nil {
		return nil, fmt.Errorf("failed to load styles from config: %w", err)
	}

	keys := make([]string, 0, len(configured))
	for k := range configured {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	definitions := Defaults()
	for _, k := range keys {
		d := configured[k]
		d.ID = k
		definitions = append(definitions, d)
	}

	return NewRegistry(definitions...)
}

// Lookup resolves an identifier case-insensitively.
func (r *Registry) Lookup(id string) (Definition, error) {
	d, ok := r.styles[normalize(id)]
	if !ok {
		return Definition{}, domain.NewUnknownStyleError(id, r.IDs())
	}

	return d, nil
}

// IDs returns the identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, len(r.order))
	for i, id := range r.order {
		defs[i] = r.styles[id]
	}
	return defs
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
