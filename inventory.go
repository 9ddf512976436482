package edittree

import (
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Inventory assigns dense class ids to labels in order of first appearance,
// which is how a classifier refers to edit trees. It is safe for
// concurrent use.
type Inventory struct {
	mu     sync.RWMutex
	ids    map[string]int
	labels []string
	counts []int
}

// inventoryEntry is the persisted form of one inventory class.
type inventoryEntry struct {
	Label string `yaml:"label"`
	Count int    `yaml:"count"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{ids: make(map[string]int)}
}

// Add records one occurrence of label and returns its id.
func (inv *Inventory) Add(label string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	id, ok := inv.ids[label]
	if !ok {
		id = len(inv.labels)
		inv.ids[label] = id
		inv.labels = append(inv.labels, label)
		inv.counts = append(inv.counts, 0)
	}
	inv.counts[id]++
	return id
}

// ID returns the id of label.
func (inv *Inventory) ID(label string) (int, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	id, ok := inv.ids[label]
	return id, ok
}

// Label returns the label with class id.
func (inv *Inventory) Label(id int) (string, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if id < 0 || id >= len(inv.labels) {
		return "", false
	}
	return inv.labels[id], true
}

// Count returns how often label was added.
func (inv *Inventory) Count(label string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if id, ok := inv.ids[label]; ok {
		return inv.counts[id]
	}
	return 0
}

// Len returns the number of distinct labels.
func (inv *Inventory) Len() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return len(inv.labels)
}

// Labels returns all labels ordered by id.
func (inv *Inventory) Labels() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]string, len(inv.labels))
	copy(out, inv.labels)
	return out
}

// WriteYAML writes the inventory as a YAML list ordered by id.
func (inv *Inventory) WriteYAML(w io.Writer) error {
	inv.mu.RLock()
	entries := make([]inventoryEntry, len(inv.labels))
	for id, label := range inv.labels {
		entries[id] = inventoryEntry{Label: label, Count: inv.counts[id]}
	}
	inv.mu.RUnlock()

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	return enc.Close()
}

// Save writes the inventory to path.
func (inv *Inventory) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create inventory: %w", err)
	}
	if err := inv.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadInventory reads an inventory written by WriteYAML. Every label must
// be a valid edit tree label and appear once.
func ReadInventory(r io.Reader) (*Inventory, error) {
	var entries []inventoryEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	inv := NewInventory()
	for i, e := range entries {
		if _, err := Deserialize(e.Label); err != nil {
			return nil, fmt.Errorf("inventory entry %d: %w", i, err)
		}
		if _, dup := inv.ids[e.Label]; dup {
			return nil, fmt.Errorf("inventory entry %d: duplicate label %q", i, e.Label)
		}
		inv.ids[e.Label] = len(inv.labels)
		inv.labels = append(inv.labels, e.Label)
		inv.counts = append(inv.counts, e.Count)
	}
	return inv, nil
}

// LoadInventory reads an inventory file.
func LoadInventory(path string) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer f.Close()

	return ReadInventory(f)
}
