package service

import "strings"

// NavItem is one sidebar entry. Children are the section's tabs.
type NavItem struct {
	Label    string    `json:"label"`
	Href     string    `json:"href"`
	Active   bool      `json:"active"`
	Children []NavItem `json:"children,omitempty"`

	base  string
	exact bool
}

func navSection(label, href, base string, children ...NavItem) NavItem {
	return NavItem{Label: label, Href: href, base: base, Children: children}
}

func navTab(label, href string) NavItem {
	return NavItem{Label: label, Href: href, base: href}
}

func navExactTab(label, href string) NavItem {
	return NavItem{Label: label, Href: href, base: href, exact: true}
}

func navigation() []NavItem {
	return []NavItem{
		navSection("Hackers", "/hackers", "/hackers"),
		navSection("Events", "/events", "/events"),
		navSection("Locations", "/locations", "/locations"),
		navSection("Participant Applications", "/participant-applications/penn-state", "/participant-applications",
			navTab("Penn State", "/participant-applications/penn-state"),
			navTab("Other", "/participant-applications/other"),
		),
		navSection("Organizer Applications", "/organizer-applications", "/organizer-applications"),
		navSection("Extra Credit", "/extra-credit/classes", "/extra-credit",
			navTab("Classes", "/extra-credit/classes"),
			navTab("Assignments", "/extra-credit/assignments"),
		),
		navSection("Sponsorship", "/sponsorship", "/sponsorship"),
		navSection("Analytics", "/analytics", "/analytics",
			navExactTab("Summary", "/analytics"),
			navExactTab("Events", "/analytics/events"),
			navExactTab("Organizers", "/analytics/organizers"),
		),
		navSection("Settings", "/settings/members", "/settings",
			navTab("Members", "/settings/members"),
			navTab("Hackathons", "/settings/hackathon"),
			navTab("Flags", "/settings/flags"),
		),
	}
}

// Navigation returns the sidebar with the entries matching path marked
// active. A section is active on its root or anything below it.
func Navigation(path string) []NavItem {
	path = strings.TrimRight(path, "/")
	items := navigation()
	for i := range items {
		items[i].Active = matchesPath(path, items[i].base, false)
		for j := range items[i].Children {
			child := &items[i].Children[j]
			child.Active = matchesPath(path, child.base, child.exact)
		}
	}
	return items
}

func matchesPath(path, base string, exact bool) bool {
	if path == base {
		return true
	}
	return !exact && strings.HasPrefix(path, base+"/")
}
