// Package document holds the current website and applies targeted edits to it.
package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"sitecraft/internal/types"
)

// MarkerAttribute is stamped on every replaced image so it can be targeted
// again even when another image shares its src.
const MarkerAttribute = "data-sitecraft-id"

// ErrImageNotFound is returned when an image reference resolves to nothing in
// the current document. The document is left unchanged.
var ErrImageNotFound = errors.New("image not found in current document")

// Store is the single source of truth for the session's document.
type Store struct {
	mu    sync.RWMutex
	doc   types.Document
	newID func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{newID: newMarkerID}
}

func newMarkerID() string {
	return "img-" + uuid.NewString()
}

// Current returns a copy of the document.
func (s *Store) Current() types.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Replace overwrites the whole document.
func (s *Store) Replace(doc types.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// PatchImage sets the src of the image ref points at and gives it a fresh
// marker id, which it returns. The reference is resolved against the document
// as it is now, by marker id when ref.ID is set, otherwise by exact src.
func (s *Store) PatchImage(ref types.ImageReference, newSrc string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patched, id, err := patchImage(s.doc.HTML, ref, newSrc, s.newID)
	if err != nil {
		return "", err
	}
	s.doc.HTML = patched
	return id, nil
}

func patchImage(markup string, ref types.ImageReference, newSrc string, newID func() string) (string, string, error) {
	nodes, err := parseBody(markup)
	if err != nil {
		return "", "", err
	}

	target := findImage(nodes, ref)
	if target == nil {
		return "", "", ErrImageNotFound
	}

	id := newID()
	setAttr(target, "src", newSrc)
	setAttr(target, MarkerAttribute, id)

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", "", fmt.Errorf("failed to render document html: %w", err)
		}
	}
	return b.String(), id, nil
}

// Images lists every image in the document in source order, with the marker
// id set for images that have been replaced before.
func (s *Store) Images() ([]types.ImageReference, error) {
	nodes, err := parseBody(s.Current().HTML)
	if err != nil {
		return nil, err
	}

	var refs []types.ImageReference
	walkImages(nodes, func(n *html.Node) bool {
		src, _ := getAttr(n, "src")
		ref := types.ImageReference{Src: src}
		if id, ok := getAttr(n, MarkerAttribute); ok {
			ref.ID = &id
		}
		refs = append(refs, ref)
		return false
	})
	return refs, nil
}

// parseBody parses markup the way a browser parses body content.
func parseBody(markup string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document html: %w", err)
	}
	return nodes, nil
}

func findImage(nodes []*html.Node, ref types.ImageReference) *html.Node {
	key, want := "src", ref.Src
	if ref.ID != nil {
		key, want = MarkerAttribute, *ref.ID
	}

	var found *html.Node
	walkImages(nodes, func(n *html.Node) bool {
		if v, ok := getAttr(n, key); ok && v == want {
			found = n
			return true
		}
		return false
	})
	return found
}

// walkImages calls visit for each img element in document order until visit
// returns true.
func walkImages(nodes []*html.Node, visit func(*html.Node) bool) {
	stop := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if stop {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img && visit(n) {
			stop = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
