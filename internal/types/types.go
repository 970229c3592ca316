package types

// Document is the whole generated website as three source strings.
type Document struct {
	HTML       string `json:"html"`
	CSS        string `json:"css"`
	JavaScript string `json:"javascript"`
}

// IsEmpty reports whether no code has been generated yet.
func (d Document) IsEmpty() bool {
	return d.HTML == "" && d.CSS == "" && d.JavaScript == ""
}

// ImageReference locates one image inside a Document's HTML.
// ID is the injected marker attribute value; it is nil for placeholders
// that have never been replaced, in which case Src is matched literally.
type ImageReference struct {
	Src string  `json:"src"`
	ID  *string `json:"id"`
}

// EditingMode governs which preview instrumentation is active.
type EditingMode string

const (
	ModeRefine EditingMode = "refine"
	ModeImages EditingMode = "images"
)

// Valid reports whether m is one of the known modes.
func (m EditingMode) Valid() bool {
	return m == ModeRefine || m == ModeImages
}
