package shell

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// Navigation describes the navigation being rendered. Effects may adjust it
// before the document is rendered.
type Navigation struct {
	Path    string
	Pattern string
	HTMX    bool
	// ResetScroll makes the document scroll to the top once loaded.
	ResetScroll bool
}

// Effect runs once for every navigation the shell renders.
type Effect interface {
	OnNavigate(c *gin.Context, nav *Navigation)
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(c *gin.Context, nav *Navigation)

// OnNavigate calls f.
func (f EffectFunc) OnNavigate(c *gin.Context, nav *Navigation) { f(c, nav) }

// ScrollResetEvent is the htmx event fired after a boosted navigation settles.
const ScrollResetEvent = "inkwell:scroll-reset"

// ScrollReset brings every navigation to the top of the page. Full loads get a
// directive in the document; htmx-boosted loads also get an
// HX-Trigger-After-Settle event, since the browser keeps its scroll position
// when htmx swaps the body.
type ScrollReset struct{}

// OnNavigate implements Effect.
func (ScrollReset) OnNavigate(c *gin.Context, nav *Navigation) {
	nav.ResetScroll = true
	if !nav.HTMX {
		return
	}
	trigger, err := json.Marshal(map[string]any{
		ScrollResetEvent: map[string]string{"path": nav.Path},
	})
	if err != nil {
		return
	}
	c.Header("HX-Trigger-After-Settle", string(trigger))
}

var _ Effect = ScrollReset{}
