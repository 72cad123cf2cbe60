package discoverer

import (
	"context"
)

// DiscoveryResult represents the result of discovering test classes
type DiscoveryResult struct {
	// Classes contains the discovered class names in input order
	Classes []string
	// Errors contains any non-fatal errors encountered during discovery
	Errors []error
}

// Discoverer selects classes of interest from a list of class names
// produced by a classpath scan
type Discoverer interface {
	// Discover returns the subset of classes this discoverer recognises.
	// Input order is preserved and duplicates in the input are kept.
	Discover(ctx context.Context, classes []string) (*DiscoveryResult, error)

	// Name returns a human-readable name for this discoverer
	Name() string
}

// MultiDiscoverer combines multiple discoverers and tries them in order
type MultiDiscoverer struct {
	discoverers []Discoverer
}

// NewMultiDiscoverer creates a new MultiDiscoverer with the given discoverers
func NewMultiDiscoverer(discoverers ...Discoverer) *MultiDiscoverer {
	return &MultiDiscoverer{
		discoverers: discoverers,
	}
}

// Discover runs each discoverer in order and combines their results. A class
// found by several discoverers is reported once, at its first position.
// Failing discoverers are recorded in Errors and do not stop the others.
func (m *MultiDiscoverer) Discover(ctx context.Context, classes []string) (*DiscoveryResult, error) {
	var allClasses []string
	var allErrors []error
	seen := make(map[string]bool)

	for _, discoverer := range m.discoverers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := discoverer.Discover(ctx, classes)
		if err != nil {
			allErrors = append(allErrors, err)
			continue
		}

		for _, class := range result.Classes {
			if seen[class] {
				continue
			}
			seen[class] = true
			allClasses = append(allClasses, class)
		}
		allErrors = append(allErrors, result.Errors...)
	}

	return &DiscoveryResult{
		Classes: allClasses,
		Errors:  allErrors,
	}, nil
}

// Name returns the name of the MultiDiscoverer
func (m *MultiDiscoverer) Name() string {
	return "MultiDiscoverer"
}

// AddDiscoverer adds a new discoverer to the chain
func (m *MultiDiscoverer) AddDiscoverer(discoverer Discoverer) {
	m.discoverers = append(m.discoverers, discoverer)
}

// GetDiscoverers returns all registered discoverers
func (m *MultiDiscoverer) GetDiscoverers() []Discoverer {
	return m.discoverers
}
