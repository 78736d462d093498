package shell

import (
	"net/url"
	"strings"

	"github.com/simp-lee/inkwell/internal/auth"
)

// Link is a navigation entry of the header.
type Link struct {
	Label string
	Href  string
}

// DefaultLinks are the header links of the site.
var DefaultLinks = []Link{
	{Label: "Explore", Href: "/explore"},
	{Label: "Topics", Href: "/topics"},
	{Label: "Writers", Href: "/writers"},
	{Label: "Write", Href: "/write"},
	{Label: "Dashboard", Href: "/dashboard"},
}

// NavLink is a Link as rendered for one path.
type NavLink struct {
	Link
	Active bool
}

// HeaderView is the data of the header partial.
type HeaderView struct {
	Links      []NavLink
	SignedIn   bool
	WriterName string
	// SignInURL returns to the current path after signing in.
	SignInURL string
	CSRFToken string
}

// Header builds the persistent site header.
type Header struct {
	links []Link
}

// NewHeader creates a Header with links, or DefaultLinks when none are given.
func NewHeader(links ...Link) *Header {
	if len(links) == 0 {
		links = DefaultLinks
	}
	return &Header{links: links}
}

// Build returns the header for path as seen by session. At most one link is
// active: the one with the longest prefix of path.
func (h *Header) Build(path string, s auth.Session) HeaderView {
	view := HeaderView{
		Links:     make([]NavLink, len(h.links)),
		SignedIn:  s.Authenticated(),
		SignInURL: "/auth",
	}
	if view.SignedIn {
		view.WriterName = s.Name
	} else if path != "/auth" && path != "" {
		view.SignInURL = "/auth?next=" + url.QueryEscape(path)
	}

	active, best := -1, 0
	for i, l := range h.links {
		view.Links[i] = NavLink{Link: l}
		if covers(l.Href, path) && len(l.Href) > best {
			active, best = i, len(l.Href)
		}
	}
	if active >= 0 {
		view.Links[active].Active = true
	}
	return view
}

func covers(href, path string) bool {
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
