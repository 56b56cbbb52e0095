package domain

// Tenant is an organizational boundary. Tenants are created implicitly the
// moment the first user of their email domain signs up; the tenant id is the
// domain itself.
type Tenant struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Domain                  string `json:"domain"`
	HasConfiguredDataSource bool   `json:"has_configured_data_source"`
}
