package session

import (
	"context"
	"errors"
	"log"
	"strings"

	"sitecraft/internal/ai/prompts"
	"sitecraft/internal/bridge"
	"sitecraft/internal/document"
	"sitecraft/internal/export"
	"sitecraft/internal/extract"
	"sitecraft/internal/types"
)

// Enhance expands a short idea into a detailed website description.
func (s *Session) Enhance(ctx context.Context, idea string) (string, error) {
	if strings.TrimSpace(idea) == "" {
		return "", userError("Prompt is empty", "Please provide an idea to enhance.", ErrEmptyInput)
	}
	if err := s.begin(ActionEnhance); err != nil {
		return "", err
	}
	defer s.end(ActionEnhance)

	enhanced, err := s.gateway.EnhancePrompt(ctx, idea)
	if err != nil {
		return "", remoteFailure("Enhance", "Enhancement Failed", "Failed to enhance prompt.", err)
	}
	return enhanced, nil
}

// Generate replaces the document with a newly generated website.
func (s *Session) Generate(ctx context.Context, description string) error {
	if strings.TrimSpace(description) == "" {
		return userError("Prompt is empty", "Please describe the website you want to create.", ErrEmptyInput)
	}
	if err := s.begin(ActionGenerate); err != nil {
		return err
	}
	defer s.end(ActionGenerate)

	if s.clearSelection() {
		s.publish(EventSelectionChanged)
	}

	doc, err := s.gateway.GenerateWebsiteCode(ctx, description)
	if err != nil {
		return remoteFailure("Generate", "Generation Failed", "Failed to generate website code.", err)
	}

	s.store.Replace(doc)
	log.Printf("Generated website: html=%d css=%d js=%d bytes", len(doc.HTML), len(doc.CSS), len(doc.JavaScript))
	s.publish(EventDocumentChanged)
	return nil
}

// Modify applies a natural-language change to the current document.
func (s *Session) Modify(ctx context.Context, request string) error {
	if strings.TrimSpace(request) == "" {
		return userError("Modification request is empty", "Please describe the changes you want to make.", ErrEmptyInput)
	}
	current := s.store.Current()
	if current.IsEmpty() {
		return userError("No code to modify", "Please generate a website first.", ErrNoCode)
	}
	if err := s.begin(ActionModify); err != nil {
		return err
	}
	defer s.end(ActionModify)

	if s.clearSelection() {
		s.publish(EventSelectionChanged)
	}

	modified, err := s.gateway.ApplyCodeModifications(ctx, prompts.CombineDocument(current), request)
	if err != nil {
		return remoteFailure("Modify", "Modification Failed", "Failed to apply code modifications.", err)
	}
	if strings.TrimSpace(modified) == "" {
		return remoteFailure("Modify", "Modification Failed", "The AI returned an empty modification. Please try again.", ErrEmptyModification)
	}

	s.store.Replace(extract.Parse(modified))
	s.publish(EventDocumentChanged)
	return nil
}

// ReplaceImage generates a new image and swaps it into the selected image.
// The selection is resolved against the document as it is when the image
// arrives, so edits that landed meanwhile are kept.
func (s *Session) ReplaceImage(ctx context.Context, description string) error {
	if strings.TrimSpace(description) == "" {
		return userError("Image prompt is empty", "Please describe the image you want to create.", ErrEmptyInput)
	}
	s.mu.Lock()
	sel := s.selection
	s.mu.Unlock()
	if sel == nil {
		return userError("No Image Selected", "Please click on a placeholder image in the preview to select it.", ErrNoSelection)
	}
	if s.store.Current().IsEmpty() {
		return userError("No code to modify", "Please generate a website first.", ErrNoCode)
	}
	if err := s.begin(ActionImage); err != nil {
		return err
	}
	defer s.end(ActionImage)

	imageURL, err := s.gateway.GenerateImage(ctx, description)
	if err != nil {
		return remoteFailure("ReplaceImage", "Image Generation Failed", "Failed to generate image.", err)
	}

	if _, err := s.store.PatchImage(sel.ImageReference, imageURL); err != nil {
		if errors.Is(err, document.ErrImageNotFound) {
			log.Printf("Image replacement target %q is gone from the document", sel.Label)
			if s.clearSelectionIf(sel) {
				s.publish(EventSelectionChanged)
			}
			return userError("Image Not Found", "The selected image is no longer on the page. Please select it again.", err)
		}
		return remoteFailure("ReplaceImage", "Image Generation Failed", "Failed to place the generated image.", err)
	}

	// A different image picked while this one was generating stays selected.
	if s.clearSelectionIf(sel) {
		s.publish(EventSelectionChanged)
	}
	s.publish(EventDocumentChanged)
	return nil
}

// SelectImage records the image the user clicked in the preview.
func (s *Session) SelectImage(msg bridge.Message) (Notice, error) {
	if err := msg.Validate(); err != nil {
		return Notice{}, userError("Invalid Selection", "The preview sent an unreadable message.", err)
	}

	if err := s.requireImageMode(); err != nil {
		return Notice{}, err
	}

	if bridge.IsGeneratedImage(msg.Src) {
		return s.setSelection(types.ImageReference{Src: bridge.GeneratedImageLabel, ID: msg.ID}), nil
	}
	src, err := bridge.NormalizeImageSource(msg.Src)
	if err != nil {
		return Notice{}, userError("Invalid Selection", "The selected image has an unusable address.", err)
	}
	return s.setSelection(types.ImageReference{Src: src, ID: msg.ID}), nil
}

// SelectDocumentImage selects an image taken from Images. Its src is kept
// exactly as written in the html, relative paths and data URIs included, so
// it matches literally when patched.
func (s *Session) SelectDocumentImage(ref types.ImageReference) (Notice, error) {
	if ref.Src == "" && ref.ID == nil {
		return Notice{}, userError("Invalid Selection", "The image has neither a src nor a marker.", bridge.ErrInvalidMessage)
	}
	if err := s.requireImageMode(); err != nil {
		return Notice{}, err
	}
	return s.setSelection(ref), nil
}

func (s *Session) requireImageMode() error {
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()
	if mode != types.ModeImages {
		return userError("Image Mode Off", "Switch to image mode to select images.", ErrNotImageMode)
	}
	return nil
}

func (s *Session) setSelection(ref types.ImageReference) Notice {
	sel := &Selection{ImageReference: ref, Label: bridge.Label(ref.Src)}
	notice := Notice{Title: "Placeholder Selected", Message: "A placeholder image has been selected. You can now write a prompt to replace it."}
	if bridge.IsGeneratedImage(ref.Src) {
		notice = Notice{Title: "Generated Image Selected", Message: "You can now write a new prompt to replace it."}
	}

	s.mu.Lock()
	s.selection = sel
	s.mu.Unlock()
	s.publish(EventSelectionChanged)
	return notice
}

// Export packages the document as a zip archive.
func (s *Session) Export() ([]byte, error) {
	data, err := export.Build(s.store.Current())
	if err != nil {
		if errors.Is(err, export.ErrEmptyDocument) {
			return nil, userError("No code to export", "Please generate a website first.", err)
		}
		log.Printf("Error exporting website: %v", err)
		return nil, userError("Export Failed", "Could not build the website archive.", err)
	}
	return data, nil
}

// Document returns the current document.
func (s *Session) Document() types.Document {
	return s.store.Current()
}

// Images lists the images of the current document.
func (s *Session) Images() ([]types.ImageReference, error) {
	return s.store.Images()
}
