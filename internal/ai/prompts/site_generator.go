package prompts

import "fmt"

// GetSiteGenerationPrompt returns the user prompt and system prompt for a
// fresh single-page website.
func GetSiteGenerationPrompt(websitePrompt string) (string, string) {
	prompt := `
		You will receive a detailed description of the desired website. Your task is to generate the complete HTML, CSS, and JavaScript code required to build a rich, multi-section single-page application that brings the user's vision to life.

		Here is the website description:

		---
		%s
		---

		KEY INSTRUCTIONS:
		1.  **Single-Page Application (SPA) Structure:**
			*   The website must be a single HTML file.
			*   Create multiple ` + "`<section>`" + ` elements for the different parts of the site (e.g., Home, About, Features). Give each section a unique ID.
			*   Only one section should be visible at a time. The first section should be visible by default.
			*   The navigation bar links should NOT be actual links that cause a page reload. They should trigger JavaScript to show/hide the corresponding sections. Do not use ` + "`href`" + ` attributes for navigation; use data attributes like ` + "`data-target=\"section-id\"`" + `.

		2.  **Navigation & Active State:**
			*   Create a JavaScript function to handle clicks on navigation items. It hides all sections, shows only the section whose ID matches the clicked item's ` + "`data-target`" + `, and moves an 'active' class to the clicked navigation item.
			*   Add CSS to style the ` + "`.active`" + ` navigation item differently so the user knows where they are.

		3.  **Creative & Bold Animations:**
			*   Do not generate simple, boring pages. If the prompt is simple, expand on it creatively.
			*   Use CSS transitions and keyframe animations to make the page feel alive. Animate elements on load, on scroll and on hover.
			*   When a new section is displayed via JavaScript, re-trigger the animations within that section, for example by removing and re-adding an animation class.

		4.  **Placeholders & CSS:**
			*   Use placeholder images from placehold.co (e.g., https://placehold.co/600x400.png). **IMPORTANT**: For each image, add a unique query parameter to make its URL distinct, like ` + "`?id=1`" + `, ` + "`?id=2`" + `, etc. This is required for individual image replacement.
			*   Include this CSS reset rule at the top of your CSS: ` + "`body { margin: 0; }`" + `

		5.  **Structure & Responsiveness:** Use semantic HTML. The design MUST be responsive, from mobile phones to desktops.

		6.  **No Generic Sections:** Do NOT include generic sections like "Contact Us" or "Subscribe to our newsletter" unless the user asks for it.

		Respond with a JSON object with exactly the keys "html", "css" and "javascript".
		"html" holds only the markup that goes inside <body>, without <script> or <style> tags.
		Do not include markdown formatting (like ` + "```" + `) in the code strings themselves.
	`

	systemPrompt := `
		You are a world-class web developer, famous for creating massive, visually stunning, and highly animated websites that are also fully responsive and functional.
		Respond ONLY with the JSON object requested.
	`

	return fmt.Sprintf(prompt, websitePrompt), systemPrompt
}
