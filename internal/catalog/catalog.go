// Package catalog holds the exercise catalog: each exercise's primary
// and secondary muscles and required equipment. The catalog is loaded
// from a JSON file compatible with common exercise database exports.
package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// Exercise describes one catalog entry. The JSON field names match the
// export format the catalog files use.
type Exercise struct {
	Name             string   `json:"Exercise Name"`
	PrimaryMuscle    string   `json:"Primary Muscle"`
	SecondaryMuscles []string `json:"Secondary Muscles"`
	Equipment        string   `json:"Equipment"`
}

// Catalog is an immutable, indexed set of exercises.
type Catalog struct {
	exercises []Exercise
	byName    map[string]*Exercise
	logger    *log.Logger
}

// Load reads a catalog JSON file from disk.
func Load(path string, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		panic("catalog.Load: logger cannot be nil")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(raw, logger)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	logger.Printf("Catalog: loaded %d exercises from %s", len(c.exercises), path)
	return c, nil
}

// Parse builds a catalog from raw JSON: an array of exercise objects.
// Entries without a name are skipped; duplicate names keep the first
// occurrence.
func Parse(raw []byte, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		panic("catalog.Parse: logger cannot be nil")
	}
	var exercises []Exercise
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{logger: logger}
	seen := make(map[string]bool)
	for _, ex := range exercises {
		if ex.Name == "" {
			logger.Println("Catalog: skipping entry without a name")
			continue
		}
		key := strings.ToLower(ex.Name)
		if seen[key] {
			logger.Printf("Catalog: skipping duplicate entry %q", ex.Name)
			continue
		}
		seen[key] = true
		c.exercises = append(c.exercises, ex)
	}

	// The map is built only once the slice has stopped growing, so every
	// entry points into the final backing array.
	c.byName = make(map[string]*Exercise, len(c.exercises))
	for i := range c.exercises {
		c.byName[strings.ToLower(c.exercises[i].Name)] = &c.exercises[i]
	}
	return c, nil
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns every exercise, sorted by name.
func (c *Catalog) All() []Exercise {
	result := make([]Exercise, len(c.exercises))
	copy(result, c.exercises)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ByName looks up an exercise case-insensitively.
func (c *Catalog) ByName(name string) (Exercise, bool) {
	ex, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return Exercise{}, false
	}
	return *ex, true
}

// ByPrimaryMuscle returns all exercises whose primary muscle matches,
// sorted by name.
func (c *Catalog) ByPrimaryMuscle(muscle string) []Exercise {
	var result []Exercise
	for _, ex := range c.exercises {
		if strings.EqualFold(ex.PrimaryMuscle, muscle) {
			result = append(result, ex)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ByEquipment returns all exercises using the given equipment, sorted
// by name.
func (c *Catalog) ByEquipment(equipment string) []Exercise {
	var result []Exercise
	for _, ex := range c.exercises {
		if strings.EqualFold(ex.Equipment, equipment) {
			result = append(result, ex)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Muscles returns the sorted set of all muscles referenced by the
// catalog, primary and secondary.
func (c *Catalog) Muscles() []string {
	seen := make(map[string]bool)
	for _, ex := range c.exercises {
		if ex.PrimaryMuscle != "" {
			seen[ex.PrimaryMuscle] = true
		}
		for _, m := range ex.SecondaryMuscles {
			if m != "" {
				seen[m] = true
			}
		}
	}
	muscles := make([]string, 0, len(seen))
	for m := range seen {
		muscles = append(muscles, m)
	}
	sort.Strings(muscles)
	return muscles
}
