package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// View is one named screen of the admin dashboard. The set of views is
// closed; anything outside it is denied.
type View string

const (
	ViewOverview     View = "overview"
	ViewOrder        View = "order"
	ViewService      View = "service"
	ViewBranches     View = "branches"
	ViewAdminAccess  View = "admin_access"
	ViewCustomerData View = "customer_data"
	ViewFinance      View = "finance"
	ViewTalentData   View = "talent_data"
	ViewSetting      View = "setting"

	// ViewNone is the sentinel returned when a user has no permitted view.
	ViewNone View = ""
)

// AllViews is the canonical ordering used for default-view selection and
// for rendering the navigation in order.
var AllViews = []View{
	ViewOverview,
	ViewOrder,
	ViewService,
	ViewBranches,
	ViewAdminAccess,
	ViewCustomerData,
	ViewFinance,
	ViewTalentData,
	ViewSetting,
}

// IsValid reports whether v belongs to the closed view set.
func (v View) IsValid() bool {
	for _, known := range AllViews {
		if v == known {
			return true
		}
	}
	return false
}

// PermissionSet maps a view name to a grant. A missing key is a denial;
// so is any view name outside the closed set.
type PermissionSet map[View]bool

// Allows reports whether the set grants access to view. Unknown views and
// absent keys are denied.
func (p PermissionSet) Allows(view View) bool {
	if !view.IsValid() {
		return false
	}
	return p[view]
}

// DefaultView returns the first view in canonical order that the set
// grants, or ViewNone when nothing is permitted.
func (p PermissionSet) DefaultView() View {
	for _, v := range AllViews {
		if p.Allows(v) {
			return v
		}
	}
	return ViewNone
}

// Clone returns an independent copy, dropping any keys outside the closed
// view set so stale grants cannot survive a replacement.
func (p PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(AllViews))
	for _, v := range AllViews {
		if granted, ok := p[v]; ok {
			out[v] = granted
		}
	}
	return out
}

// Value serializes the set as JSON for the permissions column.
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionSet{}
	}
	return json.Marshal(p)
}

// Scan loads the permissions column. NULL reads as an empty (deny-all) set.
func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionSet{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for permissions column", value)
	}

	if len(raw) == 0 {
		*p = PermissionSet{}
		return nil
	}

	var decoded map[string]bool
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return errors.New("malformed permissions column: " + err.Error())
	}

	out := make(PermissionSet, len(decoded))
	for name, granted := range decoded {
		view := View(name)
		if view.IsValid() {
			out[view] = granted
		}
	}
	*p = out
	return nil
}
