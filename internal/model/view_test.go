package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSetFailClosed(t *testing.T) {
	perms := PermissionSet{
		ViewOverview: true,
		ViewOrder:    false,
	}

	assert.True(t, perms.Allows(ViewOverview))
	assert.False(t, perms.Allows(ViewOrder), "an explicit false is a denial")
	assert.False(t, perms.Allows(ViewFinance), "a missing key is a denial")
	assert.False(t, perms.Allows(View("superuser")), "an unknown view name is a denial, not a panic")
	assert.False(t, PermissionSet(nil).Allows(ViewOverview), "a nil set denies everything")
}

func TestDefaultViewCanonicalOrder(t *testing.T) {
	perms := PermissionSet{
		ViewFinance: true,
		ViewOrder:   true,
	}

	// order precedes finance in the canonical ordering.
	assert.Equal(t, ViewOrder, perms.DefaultView())

	// Repeated calls with unchanged permissions agree.
	for i := 0; i < 5; i++ {
		assert.Equal(t, ViewOrder, perms.DefaultView())
	}
}

func TestDefaultViewNoAccess(t *testing.T) {
	assert.Equal(t, ViewNone, PermissionSet{}.DefaultView())
	assert.Equal(t, ViewNone, PermissionSet{ViewSetting: false}.DefaultView())
}

func TestPermissionSetCloneDropsUnknownViews(t *testing.T) {
	perms := PermissionSet{
		ViewOverview:      true,
		View("superuser"): true,
	}

	clone := perms.Clone()
	assert.True(t, clone.Allows(ViewOverview))
	_, kept := clone[View("superuser")]
	assert.False(t, kept, "unknown view names must not survive a clone")

	// The clone is independent of the original.
	clone[ViewOverview] = false
	assert.True(t, perms.Allows(ViewOverview))
}

func TestPermissionSetScan(t *testing.T) {
	var perms PermissionSet
	require.NoError(t, perms.Scan([]byte(`{"overview":true,"finance":false,"superuser":true}`)))

	assert.True(t, perms.Allows(ViewOverview))
	assert.False(t, perms.Allows(ViewFinance))
	assert.False(t, perms.Allows(View("superuser")), "unknown views are discarded at the gateway")

	var empty PermissionSet
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, ViewNone, empty.DefaultView())

	var bad PermissionSet
	assert.Error(t, bad.Scan([]byte(`not json`)))
}

func TestNormalizeRoleAndStatus(t *testing.T) {
	assert.Equal(t, RoleOwner, NormalizeRole("Owner"))
	assert.Equal(t, RoleStaff, NormalizeRole("Founder"), "ad hoc role strings collapse to Staff")
	assert.Equal(t, RoleStaff, NormalizeRole(""))

	assert.Equal(t, StatusActive, NormalizeStatus("Active"))
	assert.Equal(t, StatusInactive, NormalizeStatus("On Leave"))
}

func TestRolePresets(t *testing.T) {
	owner := RolePreset(RoleOwner)
	for _, v := range AllViews {
		assert.True(t, owner.Allows(v), "owner preset grants %s", v)
	}

	manager := RolePreset(RoleManager)
	assert.False(t, manager.Allows(ViewAdminAccess))
	assert.True(t, manager.Allows(ViewFinance))

	staff := RolePreset(RoleStaff)
	assert.True(t, staff.Allows(ViewOrder))
	assert.False(t, staff.Allows(ViewFinance))
	assert.False(t, staff.Allows(ViewAdminAccess))
}
