package service

import "strings"

// TenantResolver maps a user's email to the tenant that owns them. The
// strategy is pluggable so email-domain tenancy can later be replaced by
// explicit tenant provisioning without touching the auth flows.
type TenantResolver interface {
	Resolve(email string) string
}

// EmailDomainResolver derives the tenant id from the email domain. This is
// the sole tenant-isolation mechanism of the current product.
type EmailDomainResolver struct{}

func (EmailDomainResolver) Resolve(email string) string {
	_, domain, _ := strings.Cut(email, "@")
	return domain
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// tenantNameFromDomain turns "acme.com" into "acme".
func tenantNameFromDomain(domain string) string {
	name, _, _ := strings.Cut(domain, ".")
	return name
}
