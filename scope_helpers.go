package params

const (
	// Recommended priorities for common layering patterns. Higher numbers win.
	ScopePrioritySystem = 100
	ScopePriorityTenant = 200
	ScopePriorityOrg    = 300
	ScopePriorityTeam   = 400
	ScopePriorityUser   = 500
)

// SystemTenantOrgTeamUser builds the canonical five-layer stack (system,
// tenant, org, team, user). Each argument is a mapping, a container or nil.
func SystemTenantOrgTeamUser(system, tenant, org, team, user any) (*Stack, error) {
	specs := []struct {
		data  any
		scope Scope
	}{
		{user, NewScope("user", ScopePriorityUser, WithScopeLabel("User"))},
		{team, NewScope("team", ScopePriorityTeam, WithScopeLabel("Team"))},
		{org, NewScope("org", ScopePriorityOrg, WithScopeLabel("Organization"))},
		{tenant, NewScope("tenant", ScopePriorityTenant, WithScopeLabel("Tenant"))},
		{system, NewScope("system", ScopePrioritySystem, WithScopeLabel("System Defaults"))},
	}
	layers := make([]Layer, 0, len(specs))
	for _, spec := range specs {
		layer, err := NewLayer(spec.scope, spec.data)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return NewStack(layers...)
}
