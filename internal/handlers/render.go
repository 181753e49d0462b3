package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/lehigh-university-libraries/anatomymentor/internal/stream"
)

type renderedPanel struct {
	ID   string
	HTML template.HTML
}

type panelError struct {
	ID      string
	Message string
}

type uploadedImage struct {
	URI      template.URL
	Filename string
}

// pageWriter writes the page top to bottom, flushing as it goes.
// After the first write error every later call is a no-op.
type pageWriter struct {
	w         io.Writer
	rc        *http.ResponseController
	templates *template.Template
	emitter   stream.Emitter
	err       error
}

func newPageWriter(w http.ResponseWriter, templates *template.Template, emitter stream.Emitter) *pageWriter {
	return &pageWriter{
		w:         w,
		rc:        http.NewResponseController(w),
		templates: templates,
		emitter:   emitter,
	}
}

func (p *pageWriter) exec(name string, data any) {
	if p.err != nil {
		return
	}
	if err := p.templates.ExecuteTemplate(p.w, name, data); err != nil {
		p.err = fmt.Errorf("failed to render %s: %w", name, err)
	}
}

func (p *pageWriter) flush() {
	if p.err != nil {
		return
	}
	if err := p.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		p.err = fmt.Errorf("failed to flush response: %w", err)
	}
}

func (p *pageWriter) image(img *models.UploadedImage) {
	p.exec("uploaded_image", uploadedImage{
		URI:      template.URL(img.DataURI()),
		Filename: img.Filename,
	})
}

// panel runs one model call and streams its answer into the page.
// A failed call is shown in place of the panel and returned.
func (p *pageWriter) panel(ctx context.Context, id string, generate func(context.Context) (models.ModelResponse, error)) error {
	if p.err != nil {
		return nil
	}
	p.flush()

	resp, err := generate(ctx)
	if err != nil {
		p.exec("panel_error", panelError{ID: id, Message: "Failed to generate a response: " + err.Error()})
		p.flush()
		return err
	}

	p.exec("panel_start", id)
	for fragment := range p.emitter.Fragments(ctx, resp.Text) {
		if p.err != nil {
			break
		}
		if _, err := io.WriteString(p.w, template.HTMLEscapeString(fragment)); err != nil {
			p.err = fmt.Errorf("failed to write fragment: %w", err)
			break
		}
		p.flush()
	}
	p.exec("panel_end", renderedPanel{ID: id, HTML: renderMarkdown(resp.Text)})
	p.flush()

	return nil
}
