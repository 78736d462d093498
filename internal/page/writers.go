package page

import (
	"context"
	"fmt"

	"github.com/simp-lee/inkwell/internal/domain"
	"github.com/simp-lee/inkwell/internal/pkg"
)

// WritersData is one page of writer profiles.
type WritersData struct {
	Writers []domain.Writer
	Pager   Pager
}

// Writers lists writer profiles with their published article counts.
type Writers struct {
	Users domain.UserService
}

// Render implements Page.
func (w Writers) Render(ctx context.Context, req Request) (View, error) {
	result, err := w.Users.ListWriters(ctx, pkg.ParseQuery(req.Query))
	if err != nil {
		return View{}, fmt.Errorf("writers: %w", err)
	}
	return View{
		Template: "pages/writers.html",
		Title:    "Writers",
		Data: WritersData{
			Writers: result.Items,
			Pager:   newPager(req.Path, req.Query, result.Page, result.TotalPages),
		},
	}, nil
}
