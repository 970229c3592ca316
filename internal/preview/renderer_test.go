package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sitecraft/internal/types"
)

var sample = types.Document{HTML: "<h1>Hi</h1>", CSS: "body{margin:0}", JavaScript: "console.log(1)"}

func TestRenderRefineMode(t *testing.T) {
	page := Render(sample, types.ModeRefine, "http://localhost:8080")

	assert.Contains(t, page, "<style>body{margin:0}</style>")
	assert.Contains(t, page, "<h1>Hi</h1>")
	assert.Contains(t, page, "<script>console.log(1)</script>")
	assert.Contains(t, page, "javascript:")
	assert.NotContains(t, page, "image-selected")
}

func TestRenderImagesModeInjectsPickerAfterUserScript(t *testing.T) {
	page := Render(sample, types.ModeImages, "http://localhost:8080")

	assert.Contains(t, page, "image-selected")
	assert.Contains(t, page, `var hostOrigin = "http://localhost:8080";`)
	assert.Contains(t, page, `var markerAttr = "data-sitecraft-id";`)
	assert.NotContains(t, page, "'*'")

	user := strings.Index(page, "console.log(1)")
	guard := strings.Index(page, "preventDefault")
	picker := strings.Index(page, "image-selected")
	assert.Less(t, user, guard)
	assert.Less(t, guard, picker)
}

func TestRenderEscapesHostOrigin(t *testing.T) {
	page := Render(sample, types.ModeImages, `http://a";alert(1);"`)
	assert.Contains(t, page, `var hostOrigin = "http://a\";alert(1);\"";`)
}

func TestVersionTracksContentAndMode(t *testing.T) {
	v1 := Version(sample, types.ModeRefine)
	assert.Len(t, v1, 16)
	assert.Equal(t, v1, Version(sample, types.ModeRefine))
	assert.NotEqual(t, v1, Version(sample, types.ModeImages))

	changed := sample
	changed.CSS = "body{margin:1px}"
	assert.NotEqual(t, v1, Version(changed, types.ModeRefine))

	// Field boundaries matter.
	a := types.Document{HTML: "ab", CSS: "c"}
	b := types.Document{HTML: "a", CSS: "bc"}
	assert.NotEqual(t, Version(a, types.ModeRefine), Version(b, types.ModeRefine))
}
