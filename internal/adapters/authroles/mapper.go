package authroles

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/nestlink/nestlink-api/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to application roles by exact string
// membership. Group names come from configuration; unmatched identities map
// to guest, which the gate then routes to the default landing page.
type StaticRoleMapper struct {
	SuperAdminGroup      string
	LandlordGroup        string
	TenantGroup          string
	AgentGroup           string
	BuyerGroup           string
	ServiceProviderGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	// Check in privilege order so a user in several groups gets the most
	// privileged role.
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.SuperAdminGroup, domainauth.RoleSuperAdmin},
		{m.LandlordGroup, domainauth.RoleLandlord},
		{m.AgentGroup, domainauth.RoleAgent},
		{m.ServiceProviderGroup, domainauth.RoleServiceProvider},
		{m.TenantGroup, domainauth.RoleTenant},
		{m.BuyerGroup, domainauth.RoleBuyer},
	}
	for _, candidate := range ordered {
		if candidate.group == "" {
			continue
		}
		for _, g := range groups {
			if g == candidate.group {
				return candidate.role
			}
		}
	}
	return domainauth.RoleGuest
}

// ExpressionRoleMapper extracts a role directly from IdP group values using a
// JMESPath expression, for providers that encode the application role in a
// structured claim rather than flat group DNs. The expression is evaluated
// against {"groups": [...]} and must yield one of the declared role strings;
// anything else falls back to the wrapped mapper.
type ExpressionRoleMapper struct {
	expr     jmespath.JMESPath
	fallback func([]string) domainauth.Role
}

// NewExpressionRoleMapper compiles the JMESPath expression up front so an
// invalid configuration fails at startup, not per request.
func NewExpressionRoleMapper(expression string, fallback func([]string) domainauth.Role) (*ExpressionRoleMapper, error) {
	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile role expression: %w", err)
	}
	return &ExpressionRoleMapper{expr: compiled, fallback: fallback}, nil
}

func (m *ExpressionRoleMapper) Map(groups []string) domainauth.Role {
	doc := map[string]any{"groups": toAnySlice(groups)}
	result, err := m.expr.Search(doc)
	if err == nil {
		if s, ok := asString(result); ok {
			if role := domainauth.Role(s); role.Valid() {
				return role
			}
		}
	}
	if m.fallback != nil {
		return m.fallback(groups)
	}
	return domainauth.RoleGuest
}

func toAnySlice(groups []string) []any {
	out := make([]any, len(groups))
	for i, g := range groups {
		out[i] = g
	}
	return out
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}
