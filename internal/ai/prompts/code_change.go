package prompts

import (
	"fmt"

	"sitecraft/internal/types"
)

// CombineDocument serializes a document into one self-describing html block:
// css inside a <style> element, javascript inside a <script> element.
func CombineDocument(doc types.Document) string {
	return fmt.Sprintf(`
Here is the current code for the website:
`+"```html"+`
<html>
  <head>
    <style>
%s
    </style>
  </head>
  <body>
    %s
    <script>
      %s
    </script>
  </body>
</html>
`+"```"+`
`, doc.CSS, doc.HTML, doc.JavaScript)
}

// GetSiteCodeChangePrompt returns the user prompt and system prompt for
// applying a natural-language change to existing code.
func GetSiteCodeChangePrompt(originalCode string, modificationRequest string) (string, string) {
	prompt := `
		Original Code:
		%s

		Modification Request:
		---
		%s
		---

		Apply the requested changes and return the complete modified website as a single HTML document,
		with the CSS inside one <style> block in <head> and the JavaScript inside one <script> block at the end of <body>.
		Respond with a JSON object of the form {"modifiedCode": "<the full modified document>"}.
	`

	systemPrompt := `
		You are a senior web developer. The user provides the original HTML, CSS, and JavaScript code for a website
		along with a modification request in natural language. Apply the changes and return the modified code.
		Respond ONLY with the JSON object requested.
	`

	return fmt.Sprintf(prompt, originalCode, modificationRequest), systemPrompt
}
