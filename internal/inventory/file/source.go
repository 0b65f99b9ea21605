// Package file reads and writes inventory snapshots as YAML documents, for
// offline diagnosis of a captured runtime.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// Source serves a decoded snapshot document through inventory.Source.
type Source struct {
	snap inventory.Snapshot
}

var _ inventory.Source = (*Source)(nil)

// Load reads the snapshot document at path.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	src, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Decode parses a snapshot document. Unknown fields are rejected.
func Decode(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap inventory.Snapshot
	if err := yaml.UnmarshalStrict(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for i, m := range snap.Modules {
		if m.ID == "" {
			return nil, fmt.Errorf("decode snapshot: module %d has no id", i)
		}
	}
	return &Source{snap: inventory.Normalize(snap)}, nil
}

// Encode writes snap as a YAML document Decode accepts.
func Encode(w io.Writer, snap *inventory.Snapshot) error {
	out, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func (s *Source) ListModules(ctx context.Context) ([]inventory.Module, error) {
	return append([]inventory.Module(nil), s.snap.Modules...), ctx.Err()
}

func (s *Source) ListComponentDescriptors(ctx context.Context) ([]inventory.ComponentDescriptor, error) {
	out := make([]inventory.ComponentDescriptor, 0, len(s.snap.Components))
	for i, c := range s.snap.Components {
		d := c.Descriptor
		d.Key = strconv.Itoa(i)
		out = append(out, d)
	}
	return out, ctx.Err()
}

// ListConfigurations finds the component by its position in the document.
func (s *Source) ListConfigurations(ctx context.Context, d inventory.ComponentDescriptor) ([]inventory.Configuration, error) {
	i, err := strconv.Atoi(d.Key)
	if err != nil || i < 0 || i >= len(s.snap.Components) {
		return nil, fmt.Errorf("component descriptor %q was not listed", d.Name)
	}
	c := s.snap.Components[i]
	if c.LoadError != "" {
		return nil, errors.New(c.LoadError)
	}
	return append([]inventory.Configuration(nil), c.Configurations...), ctx.Err()
}
