// Package access decides whether a staff member's role set grants a
// capability. The gate is a pure predicate over caller-supplied role ids;
// role configuration is re-read from the provider on every check so it can
// be refreshed without restarting the bot.
package access

import "sync"

// RoleSets holds the configured privileged role ids. A role id may appear
// in both sets.
type RoleSets struct {
	Admin              map[string]struct{}
	CitizenshipManager map[string]struct{}
}

// NewRoleSets builds RoleSets from id slices.
func NewRoleSets(adminIDs, managerIDs []string) RoleSets {
	return RoleSets{
		Admin:              toSet(adminIDs),
		CitizenshipManager: toSet(managerIDs),
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Provider supplies the current role configuration. Implementations must
// be safe for concurrent use.
type Provider interface {
	RoleSets() RoleSets
}

// MutableProvider is a Provider whose role sets can be swapped at runtime,
// for example from an admin reload endpoint.
type MutableProvider struct {
	mu   sync.RWMutex
	sets RoleSets
}

// NewMutableProvider creates a provider with the given initial sets.
func NewMutableProvider(sets RoleSets) *MutableProvider {
	return &MutableProvider{sets: sets}
}

// RoleSets returns the current configuration.
func (p *MutableProvider) RoleSets() RoleSets {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sets
}

// Update replaces the role configuration. Checks in flight keep the sets
// they already read.
func (p *MutableProvider) Update(sets RoleSets) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets = sets
}

// Gate evaluates role-set predicates. With empty configured sets every
// check denies; this fail-safe is deliberate and must be preserved.
type Gate struct {
	provider Provider
}

// NewGate creates a gate backed by the given provider.
// Panics if provider is nil - fail fast at startup.
func NewGate(provider Provider) *Gate {
	if provider == nil {
		panic("access.NewGate: provider is required")
	}
	return &Gate{provider: provider}
}

// HasAdmin reports whether the role set intersects the admin roles.
// Ban and other administrative actions require this.
func (g *Gate) HasAdmin(roleIDs []string) bool {
	return intersects(roleIDs, g.provider.RoleSets().Admin)
}

// HasCitizenshipPermission reports whether the role set grants citizenship
// management: admin roles always qualify, manager roles additionally.
// Approve and reject require this.
func (g *Gate) HasCitizenshipPermission(roleIDs []string) bool {
	sets := g.provider.RoleSets()
	return intersects(roleIDs, sets.Admin) || intersects(roleIDs, sets.CitizenshipManager)
}

func intersects(roleIDs []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, id := range roleIDs {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
