package shell

import (
	"testing"

	"github.com/simp-lee/inkwell/internal/auth"
)

func activeLabels(v HeaderView) []string {
	var out []string
	for _, l := range v.Links {
		if l.Active {
			out = append(out, l.Label)
		}
	}
	return out
}

func TestHeader_ActiveLink(t *testing.T) {
	h := NewHeader()
	tests := []struct {
		path string
		want string
	}{
		{"/explore", "Explore"},
		{"/explore/", "Explore"},
		{"/write", "Write"},
		{"/write/12", "Write"},
		{"/writers", "Writers"},
		{"/dashboard/drafts", "Dashboard"},
		{"/", ""},
		{"/nowhere", ""},
		{"/explorer", ""},
	}
	for _, tt := range tests {
		got := activeLabels(h.Build(tt.path, auth.Session{}))
		switch {
		case tt.want == "" && len(got) != 0:
			t.Errorf("%s: active = %v, want none", tt.path, got)
		case tt.want != "" && (len(got) != 1 || got[0] != tt.want):
			t.Errorf("%s: active = %v, want [%s]", tt.path, got, tt.want)
		}
	}
}

func TestHeader_LongestPrefixWins(t *testing.T) {
	h := NewHeader(Link{Label: "Dashboard", Href: "/dashboard"}, Link{Label: "Drafts", Href: "/dashboard/drafts"})
	got := activeLabels(h.Build("/dashboard/drafts", auth.Session{}))
	if len(got) != 1 || got[0] != "Drafts" {
		t.Errorf("active = %v", got)
	}
}

func TestHeader_Session(t *testing.T) {
	h := NewHeader()

	anon := h.Build("/write/3", auth.Session{})
	if anon.SignedIn || anon.WriterName != "" {
		t.Errorf("anonymous view = %+v", anon)
	}
	if anon.SignInURL != "/auth?next=%2Fwrite%2F3" {
		t.Errorf("sign-in url = %q", anon.SignInURL)
	}
	if got := h.Build("/auth", auth.Session{}).SignInURL; got != "/auth" {
		t.Errorf("sign-in url on /auth = %q", got)
	}

	signed := h.Build("/", auth.Session{UserID: 3, Name: "Bo"})
	if !signed.SignedIn || signed.WriterName != "Bo" {
		t.Errorf("signed-in view = %+v", signed)
	}
}

func TestHeader_LinksNotShared(t *testing.T) {
	h := NewHeader()
	first := h.Build("/explore", auth.Session{})
	second := h.Build("/topics", auth.Session{})
	if !first.Links[0].Active || second.Links[0].Active {
		t.Error("building a header must not mutate earlier views")
	}
}
