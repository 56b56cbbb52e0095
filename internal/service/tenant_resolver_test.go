package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailDomainResolver(t *testing.T) {
	r := EmailDomainResolver{}

	assert.Equal(t, "acme.com", r.Resolve("alice@acme.com"))
	assert.Equal(t, "globex.co.uk", r.Resolve("bob@globex.co.uk"))
	assert.Equal(t, "", r.Resolve("not-an-email"))
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "alice", usernameFromEmail("alice@acme.com"))
	assert.Equal(t, "j.doe", usernameFromEmail("j.doe@acme.com"))
}

func TestTenantNameFromDomain(t *testing.T) {
	assert.Equal(t, "acme", tenantNameFromDomain("acme.com"))
	assert.Equal(t, "globex", tenantNameFromDomain("globex.co.uk"))
}
