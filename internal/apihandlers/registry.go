package apihandlers

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sortd/internal/models"
)

// maxStoredPlans bounds the registry; the oldest plan is evicted past this.
const maxStoredPlans = 64

// planRegistry holds previewed plans between the preview and commit calls so
// they can be fetched and edited by handle. Handles are UUIDs minted on Put.
type planRegistry struct {
	mu    sync.Mutex
	plans map[string]*models.OrganizationPlan
	order []string
}

func newPlanRegistry() *planRegistry {
	return &planRegistry{plans: make(map[string]*models.OrganizationPlan)}
}

// Put stores a plan and returns its handle.
func (r *planRegistry) Put(p *models.OrganizationPlan) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.plans[id] = p
	r.order = append(r.order, id)
	for len(r.order) > maxStoredPlans {
		delete(r.plans, r.order[0])
		r.order = r.order[1:]
	}
	return id
}

func (r *planRegistry) Get(id string) (*models.OrganizationPlan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	return p, ok
}

// Mutate runs fn on the stored plan while holding the registry lock, so
// concurrent edits of the same plan serialize instead of racing.
func (r *planRegistry) Mutate(id string, fn func(*models.OrganizationPlan) error) (*models.OrganizationPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: plan %s", models.ErrNotFound, id)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete drops a plan; deleting an unknown handle is a no-op.
func (r *planRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return
	}
	delete(r.plans, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
