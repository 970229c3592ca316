package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"sitecraft/internal/bridge"
	"sitecraft/internal/export"
	"sitecraft/internal/session"
	"sitecraft/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a website from the command line and export it",
	Long: `Generates a website from --prompt, optionally refines it interactively,
and writes it to website.zip (or to a directory with --dir).`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("prompt", "p", "", "description of the website")
	generateCmd.Flags().Bool("enhance", false, "expand the prompt before generating")
	generateCmd.Flags().StringP("out", "o", export.ArchiveName, "zip archive to write")
	generateCmd.Flags().String("dir", "", "write index.html, style.css and script.js to this directory instead of a zip")
	generateCmd.Flags().BoolP("interactive", "i", false, "refine the website and replace images before exporting")
	rootCmd.AddCommand(generateCmd)
}

const (
	choiceRefine = "Refine the website"
	choiceImage  = "Replace an image"
	choiceExport = "Export and exit"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	prompt, _ := cmd.Flags().GetString("prompt")
	enhance, _ := cmd.Flags().GetBool("enhance")
	out, _ := cmd.Flags().GetString("out")
	dir, _ := cmd.Flags().GetString("dir")
	interactive, _ := cmd.Flags().GetBool("interactive")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if strings.TrimSpace(prompt) == "" {
		if !interactive {
			return errors.New("--prompt is required unless --interactive is set")
		}
		p := promptui.Prompt{Label: "Describe the website you want to create"}
		if prompt, err = p.Run(); err != nil {
			return fmt.Errorf("website prompt: %w", err)
		}
	}

	sess := session.New(newGenerator(cfg))

	if enhance {
		enhanced, err := withSpinner("Enhancing prompt", func() (string, error) {
			return sess.Enhance(ctx, prompt)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Enhanced prompt:\n%s\n\n", enhanced)
		prompt = enhanced
	}

	if _, err := withSpinner("Generating website", func() (struct{}, error) {
		return struct{}{}, sess.Generate(ctx, prompt)
	}); err != nil {
		return err
	}

	if interactive {
		if err := refineLoop(ctx, sess); err != nil {
			return err
		}
	}

	return writeExport(sess, out, dir)
}

func refineLoop(ctx context.Context, sess *session.Session) error {
	for {
		choose := promptui.Select{
			Label: "What next?",
			Items: []string{choiceRefine, choiceImage, choiceExport},
		}
		_, choice, err := choose.Run()
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		switch choice {
		case choiceRefine:
			err = refineOnce(ctx, sess)
		case choiceImage:
			err = replaceImageOnce(ctx, sess)
		default:
			return nil
		}

		var userErr *session.Error
		switch {
		case err == nil:
		case errors.As(err, &userErr):
			fmt.Fprintf(os.Stderr, "%s: %s\n", userErr.Title, userErr.Message)
		case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return err
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func refineOnce(ctx context.Context, sess *session.Session) error {
	p := promptui.Prompt{Label: "Describe the changes you want to make"}
	request, err := p.Run()
	if err != nil {
		return err
	}
	_, err = withSpinner("Applying changes", func() (struct{}, error) {
		return struct{}{}, sess.Modify(ctx, request)
	})
	return err
}

func replaceImageOnce(ctx context.Context, sess *session.Session) error {
	images, err := sess.Images()
	if err != nil {
		return err
	}
	if len(images) == 0 {
		fmt.Fprintln(os.Stderr, "The website has no images.")
		return nil
	}

	labels := make([]string, len(images))
	for i, ref := range images {
		labels[i] = fmt.Sprintf("%d. %s", i+1, bridge.Label(ref.Src))
	}
	pick := promptui.Select{Label: "Select an image", Items: labels}
	idx, _, err := pick.Run()
	if err != nil {
		return err
	}

	if err := sess.SetMode(types.ModeImages); err != nil {
		return err
	}
	defer func() { _ = sess.SetMode(types.ModeRefine) }()

	ref := images[idx]
	notice, err := sess.SelectDocumentImage(ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s\n", notice.Title)

	p := promptui.Prompt{Label: "Describe the new image"}
	description, err := p.Run()
	if err != nil {
		return err
	}
	_, err = withSpinner("Generating image", func() (struct{}, error) {
		return struct{}{}, sess.ReplaceImage(ctx, description)
	})
	return err
}

func writeExport(sess *session.Session, out, dir string) error {
	if dir != "" {
		if err := export.WriteDir(dir, sess.Document()); err != nil {
			return fmt.Errorf("writing website to %s: %w", dir, err)
		}
		fmt.Fprintf(os.Stderr, "Website written to %s\n", dir)
		return nil
	}

	data, err := sess.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Website exported to %s\n", out)
	return nil
}

// withSpinner shows an indeterminate spinner on stderr while run is pending.
func withSpinner[T any](description string, run func() (T, error)) (T, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	v, err := run()
	close(done)
	wg.Wait()
	_ = bar.Finish()
	return v, err
}
