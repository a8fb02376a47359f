// Package search runs cross-validated hyperparameter sweeps. Two
// configuration generators share one driver: Grid enumerates a Cartesian
// product, Sampler draws a fixed budget from per-parameter distributions.
package search

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var ErrEmptySpace = errors.New("search: empty parameter space")

// Params is one hyperparameter configuration. Values are int, float64 or
// string.
type Params map[string]any

func (p Params) Int(name string) (int, bool) {
	switch v := p[name].(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func (p Params) Float(name string) (float64, bool) {
	switch v := p[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (p Params) String(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Key renders the configuration in a stable name=value form for logs and
// report rows.
func (p Params) Key() string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%v", name, p[name])
	}
	return out
}

// Generator produces the list of configurations a sweep will evaluate.
type Generator interface {
	Generate(rnd *rand.Rand) ([]Params, error)
}

// Grid is an exhaustive generator: every combination of the listed values.
type Grid map[string][]any

// Generate enumerates the Cartesian product in a deterministic order:
// parameter names sorted, the last name varying fastest. The rnd argument is
// unused; enumeration is not random.
func (g Grid) Generate(_ *rand.Rand) ([]Params, error) {
	if len(g) == 0 {
		return nil, ErrEmptySpace
	}
	names := make([]string, 0, len(g))
	for name, values := range g {
		if len(values) == 0 {
			return nil, fmt.Errorf("search: parameter %q has no values", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	configs := []Params{{}}
	for _, name := range names {
		var next []Params
		for _, base := range configs {
			for _, v := range g[name] {
				p := base.clone()
				p[name] = v
				next = append(next, p)
			}
		}
		configs = next
	}
	return configs, nil
}

// Distribution draws one parameter value per trial.
type Distribution interface {
	Validate() error
	Sample(rnd *rand.Rand) any
}

// IntRange draws uniformly from [Low, High).
type IntRange struct {
	Low  int
	High int
}

func (d IntRange) Validate() error {
	if d.High <= d.Low {
		return fmt.Errorf("search: empty int range [%d, %d)", d.Low, d.High)
	}
	return nil
}

func (d IntRange) Sample(rnd *rand.Rand) any {
	return d.Low + rnd.Intn(d.High-d.Low)
}

// Choice draws uniformly from an explicit value list.
type Choice struct {
	Values []any
}

func (d Choice) Validate() error {
	if len(d.Values) == 0 {
		return errors.New("search: empty choice distribution")
	}
	return nil
}

func (d Choice) Sample(rnd *rand.Rand) any {
	return d.Values[rnd.Intn(len(d.Values))]
}

// Sampler draws Trials independent configurations. Sampled combinations are
// not deduplicated; overlap is allowed.
type Sampler struct {
	Distributions map[string]Distribution
	Trials        int
}

func (s Sampler) Generate(rnd *rand.Rand) ([]Params, error) {
	if s.Trials <= 0 {
		return nil, fmt.Errorf("search: sampling budget must be positive, got %d", s.Trials)
	}
	if len(s.Distributions) == 0 {
		return nil, ErrEmptySpace
	}
	names := make([]string, 0, len(s.Distributions))
	for name, dist := range s.Distributions {
		if dist == nil {
			return nil, fmt.Errorf("search: parameter %q has nil distribution", name)
		}
		if err := dist.Validate(); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	configs := make([]Params, s.Trials)
	for i := range configs {
		p := make(Params, len(names))
		for _, name := range names {
			p[name] = s.Distributions[name].Sample(rnd)
		}
		configs[i] = p
	}
	return configs, nil
}
