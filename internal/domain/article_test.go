package domain

import "testing"

func TestArticleStatus_Valid(t *testing.T) {
	tests := []struct {
		status ArticleStatus
		want   bool
	}{
		{StatusDraft, true},
		{StatusPublished, true},
		{"", false},
		{"archived", false},
		{"Published", false},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("ArticleStatus(%q).Valid() = %v; want %v", tt.status, got, tt.want)
		}
	}
}

func TestPageResult_Navigation(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		total    int
		wantPrev bool
		wantNext bool
	}{
		{"first of three", 1, 3, false, true},
		{"middle", 2, 3, true, true},
		{"last", 3, 3, true, false},
		{"empty", 1, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PageResult[Article]{Page: tt.page, TotalPages: tt.total}
			if got := p.HasPrev(); got != tt.wantPrev {
				t.Errorf("HasPrev() = %v; want %v", got, tt.wantPrev)
			}
			if got := p.HasNext(); got != tt.wantNext {
				t.Errorf("HasNext() = %v; want %v", got, tt.wantNext)
			}
		})
	}
}
