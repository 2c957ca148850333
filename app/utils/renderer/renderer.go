package renderer

import (
	"github.com/unrolled/render"
)

// New builds the JSON renderer shared by every handler. Development builds
// indent their output.
func New(development bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    development,
		UnEscapeHTML:  true,
		IsDevelopment: development,
	})
}
