// Package department maintains the shared catalogue of expense departments.
package department

import (
	"strings"

	"github.com/finad-dev/finad/internal/model"
)

const (
	labelSuffix  = "Bills"
	defaultColor = "#ff8c38"
)

// Catalogue provides lookup over the department set. Removed departments are
// retired rather than dropped so historical bills and ledger entries keep
// resolving.
type Catalogue struct {
	departments []model.Department
	byLabel     map[string]int
}

// NewCatalogue creates a Catalogue from a slice of departments. Later
// duplicates of a label are ignored.
func NewCatalogue(departments []model.Department) *Catalogue {
	c := &Catalogue{byLabel: make(map[string]int, len(departments))}
	for _, d := range departments {
		if _, dup := c.byLabel[d.Label]; dup {
			continue
		}
		c.byLabel[d.Label] = len(c.departments)
		c.departments = append(c.departments, d)
	}
	return c
}

// Label derives the stable label for a department name.
func Label(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, labelSuffix) {
		return name
	}
	return name + " " + labelSuffix
}

// Add registers a new department. Adding a retired label brings it back.
func (c *Catalogue) Add(name, color string) (model.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Department{}, model.ValidationError{Field: "name", Reason: "is required"}
	}
	if color == "" {
		color = defaultColor
	}
	label := Label(name)
	if i, ok := c.byLabel[label]; ok {
		if !c.departments[i].Retired {
			return model.Department{}, model.ValidationError{Field: "label", Reason: "department " + label + " already exists"}
		}
		c.departments[i].Retired = false
		return c.departments[i], nil
	}

	d := model.Department{Label: label, Name: name, Color: color}
	c.byLabel[label] = len(c.departments)
	c.departments = append(c.departments, d)
	return d, nil
}

// Remove retires an active department.
func (c *Catalogue) Remove(label string) error {
	i, ok := c.byLabel[label]
	if !ok || c.departments[i].Retired {
		return model.NotFoundError("department", label)
	}
	c.departments[i].Retired = true
	return nil
}

// Exists reports whether label is an active department. New bills may only
// reference active departments.
func (c *Catalogue) Exists(label string) bool {
	i, ok := c.byLabel[label]
	return ok && !c.departments[i].Retired
}

// Known reports whether label was ever registered.
func (c *Catalogue) Known(label string) bool {
	_, ok := c.byLabel[label]
	return ok
}

// Get returns a department by label, retired or not.
func (c *Catalogue) Get(label string) (model.Department, bool) {
	i, ok := c.byLabel[label]
	if !ok {
		return model.Department{}, false
	}
	return c.departments[i], true
}

// Active returns the active departments in registration order.
func (c *Catalogue) Active() []model.Department {
	var out []model.Department
	for _, d := range c.departments {
		if !d.Retired {
			out = append(out, d)
		}
	}
	return out
}

// All returns every department including retired ones.
func (c *Catalogue) All() []model.Department {
	out := make([]model.Department, len(c.departments))
	copy(out, c.departments)
	return out
}
