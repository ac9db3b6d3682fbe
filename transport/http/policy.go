package http

import (
	"net/http"
	"strings"

	"github.com/layer-3/catalog/core"
)

type groupRule struct {
	prefix string
	roles  []core.Role
}

// RoutePolicy maps routes to the roles allowed to call them.
// A (method, pattern) entry replaces the default of its group, and among
// groups the longest matching prefix wins. Routes with no entry only need
// an authenticated caller.
type RoutePolicy struct {
	groups []groupRule
	routes map[string][]core.Role
}

// NewRoutePolicy creates an empty policy
func NewRoutePolicy() *RoutePolicy {
	return &RoutePolicy{routes: make(map[string][]core.Role)}
}

// Group sets the default roles for every route under prefix
func (p *RoutePolicy) Group(prefix string, roles ...core.Role) *RoutePolicy {
	p.groups = append(p.groups, groupRule{prefix: strings.TrimSuffix(prefix, "/"), roles: roles})
	return p
}

// Route sets the roles for one method and route pattern, e.g. "/api/produtos/:id"
func (p *RoutePolicy) Route(method, pattern string, roles ...core.Role) *RoutePolicy {
	p.routes[routeKey(method, pattern)] = roles
	return p
}

// RequiredRoles returns the roles allowed on a route, nil when any
// authenticated caller is allowed
func (p *RoutePolicy) RequiredRoles(method, pattern string) []core.Role {
	if roles, ok := p.routes[routeKey(method, pattern)]; ok {
		return roles
	}

	var best *groupRule
	for i := range p.groups {
		g := &p.groups[i]
		if pattern != g.prefix && !strings.HasPrefix(pattern, g.prefix+"/") {
			continue
		}
		if best == nil || len(g.prefix) > len(best.prefix) {
			best = g
		}
	}
	if best == nil {
		return nil
	}
	return best.roles
}

func routeKey(method, pattern string) string {
	return strings.ToUpper(method) + " " + pattern
}

// CatalogPolicy is the role table of the product API: everyone signed in may
// read, only administrators may change the catalog
func CatalogPolicy() *RoutePolicy {
	return NewRoutePolicy().
		Group("/api/produtos", core.RoleUser, core.RoleAdmin).
		Route(http.MethodPost, "/api/produtos", core.RoleAdmin).
		Route(http.MethodPut, "/api/produtos/:id", core.RoleAdmin).
		Route(http.MethodDelete, "/api/produtos/:id", core.RoleAdmin)
}

func roleAllowed(allowed []core.Role, role core.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func joinRoles(roles []core.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
