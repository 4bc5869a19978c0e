package shipping

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Profile is a named service level with its own rate table, e.g. "standard"
// or "express".
type Profile struct {
	Name  string
	Table ZoneRateTable
}

// Quote is the result of pricing an order with one profile.
type Quote struct {
	QuoteID string
	Profile string
	Result  *ShippingCostResult
}

// Registry manages service profiles sharing one box catalog.
type Registry struct {
	profiles map[string]Profile
	boxes    []PackagingBox
	opts     []Option
	mu       sync.RWMutex
}

// NewRegistry creates a new profile registry.
func NewRegistry(boxes []PackagingBox, opts ...Option) *Registry {
	return &Registry{
		profiles: make(map[string]Profile),
		boxes:    boxes,
		opts:     opts,
	}
}

// Register adds a profile, replacing any profile with the same name.
func (r *Registry) Register(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
}

// SetBoxes replaces the box catalog.
func (r *Registry) SetBoxes(boxes []PackagingBox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes = boxes
}

// Boxes returns the box catalog.
func (r *Registry) Boxes() []PackagingBox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PackagingBox, len(r.boxes))
	copy(out, r.boxes)
	return out
}

// Get returns a profile by name.
func (r *Registry) Get(name string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// All returns all profiles sorted by name.
func (r *Registry) All() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns the names of all profiles, sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return names
}

// Count returns the number of registered profiles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// Quote prices an order with a single profile.
func (r *Registry) Quote(name string, order Order, distanceKm float64) (*Quote, error) {
	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return r.quote(p, order, distanceKm)
}

func (r *Registry) quote(p Profile, order Order, distanceKm float64) (*Quote, error) {
	res, err := CalculateShippingCost(order, p.Table, r.Boxes(), distanceKm, r.opts...)
	if err != nil {
		return nil, err
	}
	return &Quote{
		QuoteID: uuid.NewString(),
		Profile: p.Name,
		Result:  res,
	}, nil
}

// QuoteAll prices the order with every profile in parallel. Failing profiles
// are reported in errs as *ProfileError and do not fail the others. Quotes are
// ordered by total cost, then profile name; errors by profile name.
func (r *Registry) QuoteAll(ctx context.Context, order Order, distanceKm float64) ([]*Quote, []error) {
	return r.QuoteProfiles(ctx, order, distanceKm, nil)
}

// QuoteProfiles prices the order with the named profiles, or with all of
// them when names is empty.
func (r *Registry) QuoteProfiles(ctx context.Context, order Order, distanceKm float64, names []string) ([]*Quote, []error) {
	if len(names) == 0 {
		names = r.Names()
	}
	if len(names) == 0 {
		return nil, []error{ErrNoRateTable}
	}

	results := make([]*Quote, 0, len(names))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for _, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = append(errs, &ProfileError{Profile: name, Err: err})
				mu.Unlock()
				return nil
			}

			q, err := r.Quote(name, order, distanceKm)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, &ProfileError{Profile: name, Err: err})
				return nil
			}
			results = append(results, q)
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		ci, cj := results[i].Result.TotalCost, results[j].Result.TotalCost
		if !ci.Equal(cj) {
			return ci.LessThan(cj)
		}
		return results[i].Profile < results[j].Profile
	})
	sort.SliceStable(errs, func(i, j int) bool {
		return ProfileOf(errs[i]) < ProfileOf(errs[j])
	})
	return results, errs
}
