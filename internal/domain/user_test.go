package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleVendor.Valid())
	assert.True(t, RoleCustomer.Valid())

	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserStatus_Valid(t *testing.T) {
	assert.True(t, UserStatusActive.Valid())
	assert.True(t, UserStatusBanned.Valid())

	assert.False(t, UserStatus("disabled").Valid())
}
