package entity

import "fmt"

// NavItem is one entry of the role-specific navigation
type NavItem struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Icon    string `json:"icon"`
	Mobile  bool   `json:"mobile"`
	Desktop bool   `json:"desktop"`
}

var (
	navHome         = NavItem{Label: "Home", Path: "/", Icon: "home", Mobile: true, Desktop: true}
	navServices     = NavItem{Label: "Services", Path: "/menu", Icon: "clipboard-list", Mobile: true, Desktop: true}
	navDashboard    = NavItem{Label: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard", Mobile: true, Desktop: false}
	navBookTest     = NavItem{Label: "Book Test", Path: "/book-test", Icon: "calendar", Mobile: true, Desktop: true}
	navMyAppts      = NavItem{Label: "My Appts", Path: "/my-appointments", Icon: "file-text", Mobile: true, Desktop: true}
	navAdminDash    = NavItem{Label: "Dashboard", Path: "/admin/dashboard", Icon: "layout-dashboard", Mobile: true, Desktop: true}
	navAdminAllAppt = NavItem{Label: "All Appts", Path: "/admin/appointments", Icon: "clipboard-list", Mobile: true, Desktop: true}
	navProfile      = NavItem{Label: "Profile", Path: "/profile", Icon: "user", Mobile: true, Desktop: false}
)

// NavItemsFor returns the navigation for a role.
func NavItemsFor(r Role) []NavItem {
	switch r {
	case RoleGuest:
		return []NavItem{navHome, navServices}
	case RolePatient:
		return []NavItem{navDashboard, navBookTest, navMyAppts, navProfile}
	case RoleAdmin:
		return []NavItem{navAdminDash, navAdminAllAppt, navProfile}
	default:
		panic(fmt.Sprintf("entity: unknown role %d", int(r)))
	}
}

// FilterNav keeps the items visible on the given surface.
func FilterNav(items []NavItem, mobile bool) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if (mobile && item.Mobile) || (!mobile && item.Desktop) {
			out = append(out, item)
		}
	}
	return out
}
