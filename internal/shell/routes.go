package shell

import "github.com/simp-lee/inkwell/internal/page"

// Pages are the views mounted by DefaultRoutes.
type Pages struct {
	Home      page.Page
	Feed      page.Page
	Topics    page.Page
	Writers   page.Page
	Studio    page.Page
	Auth      page.Page
	Dashboard page.Page
	NotFound  page.Page
}

// DefaultRoutes is the route table of the site, in match order.
func DefaultRoutes(p Pages) []Route {
	return []Route{
		{Pattern: "/", Name: "home", Page: p.Home},
		{Pattern: "/explore", Name: "feed", Page: p.Feed},
		{Pattern: "/topics", Name: "topics", Page: p.Topics},
		{Pattern: "/writers", Name: "writers", Page: p.Writers},
		{Pattern: "/write", Name: "studio", Page: p.Studio},
		{Pattern: "/write/:id", Name: "studio", Page: p.Studio},
		{Pattern: "/auth", Name: "auth", Page: p.Auth},
		{Pattern: "/dashboard", Name: "dashboard", Page: p.Dashboard},
		{Pattern: "/dashboard/:tab", Name: "dashboard", Page: p.Dashboard},
		{Pattern: Wildcard, Name: "not_found", Page: p.NotFound},
	}
}
