// Package export packages a document as a standalone static website.
package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sitecraft/internal/types"
)

// ArchiveName is the suggested download name for Build's output.
const ArchiveName = "website.zip"

// ErrEmptyDocument is returned when there is no code to export.
var ErrEmptyDocument = errors.New("no code to export")

const rootDir = "website"

// File is one file of the exported site.
type File struct {
	Name    string
	Content string
}

// Files returns index.html, style.css and script.js for doc.
func Files(doc types.Document) ([]File, error) {
	if doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}
	return []File{
		{Name: "index.html", Content: IndexHTML(doc)},
		{Name: "style.css", Content: doc.CSS},
		{Name: "script.js", Content: doc.JavaScript},
	}, nil
}

// IndexHTML wraps the document's html in a full page that links style.css and
// loads script.js at the end of the body.
func IndexHTML(doc types.Document) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Exported Website</title>
    <link rel="stylesheet" href="style.css">
</head>
<body>
    %s
    <script src="script.js"></script>
</body>
</html>
`, doc.HTML)
}

// Build returns a zip archive with the site under a website/ directory.
func Build(doc types.Document) ([]byte, error) {
	files, err := Files(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(rootDir + "/" + f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", f.Name, err)
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDir writes the site's files directly into dir.
func WriteDir(dir string, doc types.Document) error {
	files, err := Files(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	log.Printf("Wrote %d files to %s", len(files), dir)
	return nil
}
