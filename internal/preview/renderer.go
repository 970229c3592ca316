// Package preview builds the document loaded into the sandboxed preview frame.
package preview

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"strings"

	"sitecraft/internal/document"
	"sitecraft/internal/types"
)

// SandboxPolicy is applied both as the frame's sandbox attribute and as a CSP
// sandbox directive on the preview response. It deliberately omits
// allow-same-origin.
const SandboxPolicy = "allow-scripts allow-popups"

//go:embed scripts/linkguard.js
var linkGuardScript string

//go:embed scripts/imagepick.js
var imagePickTemplate string

// Render returns the full preview page for doc. hostOrigin is the only origin
// the image-pick script will post to.
func Render(doc types.Document, mode types.EditingMode, hostOrigin string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n  <head>\n    <meta charset=\"UTF-8\">\n    <style>")
	b.WriteString(doc.CSS)
	b.WriteString("</style>\n  </head>\n  <body>\n    ")
	b.WriteString(doc.HTML)
	b.WriteString("\n    <script>")
	b.WriteString(doc.JavaScript)
	b.WriteString("</script>\n    <script>")
	b.WriteString(linkGuardScript)
	b.WriteString("</script>\n")
	if mode == types.ModeImages {
		b.WriteString("    <script>")
		b.WriteString(imagePickScript(hostOrigin))
		b.WriteString("</script>\n")
	}
	b.WriteString("  </body>\n</html>\n")
	return b.String()
}

func imagePickScript(hostOrigin string) string {
	r := strings.NewReplacer(
		"__HOST_ORIGIN__", jsString(hostOrigin),
		"__MARKER_ATTR__", jsString(document.MarkerAttribute),
	)
	return r.Replace(imagePickTemplate)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// Version identifies the rendered content. Any change to the document or the
// mode yields a new version, which makes the host rebuild its frame.
func Version(doc types.Document, mode types.EditingMode) string {
	h := sha256.New()
	for _, part := range []string{string(mode), doc.HTML, doc.CSS, doc.JavaScript} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
