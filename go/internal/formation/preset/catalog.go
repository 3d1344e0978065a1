package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/mcdev12/lineup/go/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPresetName is used when nothing else names a preset
	DefaultPresetName = "4-3-3"
	// DefaultBenchSize is the number of substitute slots shown on the bench
	DefaultBenchSize = 7
)

//go:embed presets.yaml
var embeddedPresets []byte

type catalogFile struct {
	Default   string          `yaml:"default"`
	BenchSize int             `yaml:"bench_size"`
	Presets   []models.Preset `yaml:"presets"`
}

// Catalog is a read-only table of formation presets
type Catalog struct {
	names         []string
	presets       map[string]models.Preset
	defaultPreset string
	benchSize     int
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the catalog built from the embedded presets file.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := Load(bytes.NewReader(embeddedPresets))
		if err != nil {
			panic(fmt.Sprintf("invalid embedded presets: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load parses a presets YAML document into a Catalog
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	return New(file.Presets, file.Default, file.BenchSize)
}

// New validates presets and builds a Catalog from them
func New(presets []models.Preset, defaultPreset string, benchSize int) (*Catalog, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("catalog must contain at least one preset")
	}

	c := &Catalog{
		presets:   make(map[string]models.Preset, len(presets)),
		benchSize: benchSize,
	}
	for _, p := range presets {
		if err := validatePreset(p); err != nil {
			return nil, err
		}
		if _, exists := c.presets[p.Name]; exists {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		slots := make([]models.PositionSlot, len(p.Slots))
		copy(slots, p.Slots)
		c.presets[p.Name] = models.Preset{Name: p.Name, Slots: slots}
		c.names = append(c.names, p.Name)
	}

	if defaultPreset == "" {
		defaultPreset = c.names[0]
	}
	if _, ok := c.presets[defaultPreset]; !ok {
		return nil, &UnknownPresetError{Name: defaultPreset}
	}
	c.defaultPreset = defaultPreset

	if c.benchSize <= 0 {
		c.benchSize = DefaultBenchSize
	}
	return c, nil
}

func validatePreset(p models.Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if len(p.Slots) == 0 {
		return fmt.Errorf("preset %q has no slots", p.Name)
	}
	seen := make(map[string]bool, len(p.Slots))
	for _, s := range p.Slots {
		if s.ID == "" {
			return fmt.Errorf("preset %q has a slot without id", p.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("preset %q has duplicate slot id %q", p.Name, s.ID)
		}
		seen[s.ID] = true
		if s.XNorm < 0 || s.XNorm > 100 || s.YNorm < 0 || s.YNorm > 100 {
			return fmt.Errorf("preset %q slot %q coordinates out of range", p.Name, s.ID)
		}
	}
	return nil
}

// Names returns preset names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// SlotsFor returns a copy of the slots of the named preset
func (c *Catalog) SlotsFor(name string) ([]models.PositionSlot, error) {
	p, ok := c.presets[name]
	if !ok {
		return nil, &UnknownPresetError{Name: name}
	}
	slots := make([]models.PositionSlot, len(p.Slots))
	copy(slots, p.Slots)
	return slots, nil
}

// Has reports whether the catalog knows the preset
func (c *Catalog) Has(name string) bool {
	_, ok := c.presets[name]
	return ok
}

// DefaultPreset returns the preset used to bootstrap new formations
func (c *Catalog) DefaultPreset() string {
	return c.defaultPreset
}

// BenchSize returns the bench capacity
func (c *Catalog) BenchSize() int {
	return c.benchSize
}

// Names returns the names of the default catalog
func Names() []string {
	return Default().Names()
}

// SlotsFor looks up slots in the default catalog
func SlotsFor(name string) ([]models.PositionSlot, error) {
	return Default().SlotsFor(name)
}
