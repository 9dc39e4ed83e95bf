package types

import "testing"

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleManager, RoleStaff, RoleCustomer} {
		if !role.Valid() {
			t.Errorf("%q should be valid", role)
		}
	}
	for _, role := range []Role{"", "root", "Admin", "ADMIN"} {
		if role.Valid() {
			t.Errorf("%q should be invalid", role)
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role      Role
		canManage bool
	}{
		{RoleAdmin, true},
		{RoleManager, true},
		{RoleStaff, false},
		{RoleCustomer, false},
	}
	for _, tc := range cases {
		if got := tc.role.CanManageBookings(); got != tc.canManage {
			t.Errorf("%s.CanManageBookings() = %v, want %v", tc.role, got, tc.canManage)
		}
		if got := tc.role.CanManageInventory(); got != tc.canManage {
			t.Errorf("%s.CanManageInventory() = %v, want %v", tc.role, got, tc.canManage)
		}
	}
}

func TestUserSummaryOmitsSecrets(t *testing.T) {
	user := User{
		ID:           1,
		Email:        "a@example.com",
		Name:         "A",
		Role:         RoleCustomer,
		PasswordHash: "$2a$10$hash",
	}
	summary := user.Summary()
	if summary.ID != 1 || summary.Email != user.Email || summary.Role != RoleCustomer {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
