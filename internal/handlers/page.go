package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-multierror"
	"github.com/lehigh-university-libraries/anatomymentor/internal/images"
	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
)

const (
	// the unread rest of an oversized upload is drained up to this
	maxRequestSize = 4 * images.MaxUploadSize
	maxFieldSize   = 64 << 10

	topicPlaceholder = "Please enter an anatomy topic in the sidebar."
	imagePlaceholder = "Please upload an image for analysis."
)

// HandlePage renders the whole page for the current inputs.
//
// Each panel is recomputed on every request whenever its inputs are present:
// the topic analysis runs whenever a topic is set, the questions run only when
// the generate button was pressed, and the image analysis runs whenever an
// image was uploaded. Panels are independent; one failing does not stop the
// others.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	input, err := readInput(r)
	if err != nil {
		if isTooLarge(err) {
			h.writeError(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	p := newPageWriter(w, h.templates, h.emitter)
	var errs *multierror.Error

	p.exec("page_start", input)

	p.exec("column_start", nil)
	p.exec("subheader", "Anatomy Topic Analysis:")
	if input.Topic != "" {
		err := p.panel(ctx, "topic-analysis", func(ctx context.Context) (models.ModelResponse, error) {
			return h.tutor.AnalyzeTopic(ctx, input.Topic)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("topic analysis: %w", err))
		}
	} else {
		p.exec("placeholder", topicPlaceholder)
	}
	p.exec("divider", nil)
	p.exec("column_end", nil)

	p.exec("column_start", nil)
	p.exec("subheader", "Question Generation:")
	if input.Generate {
		err := p.panel(ctx, "question-generation", func(ctx context.Context) (models.ModelResponse, error) {
			return h.tutor.GenerateQuestions(ctx, input.Topic, input.QuestionCount)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("question generation: %w", err))
		}
	}
	p.exec("divider", nil)

	p.exec("subheader", "Anatomical Structure Image Analysis and Description:")
	switch {
	case input.ImageErr != nil:
		p.exec("panel_error", panelError{ID: "image-analysis", Message: "Unable to read the uploaded image: " + input.ImageErr.Error()})
		errs = multierror.Append(errs, fmt.Errorf("image upload: %w", input.ImageErr))
	case input.Image != nil:
		p.image(input.Image)
		err := p.panel(ctx, "image-analysis", func(ctx context.Context) (models.ModelResponse, error) {
			return h.tutor.AnalyzeImage(ctx, input.Image)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("image analysis: %w", err))
		}
	default:
		p.exec("placeholder", imagePlaceholder)
	}
	p.exec("column_end", nil)

	p.exec("page_end", nil)
	p.flush()

	requestID := chimw.GetReqID(ctx)
	if err := errs.ErrorOrNil(); err != nil {
		slog.Error("Page rendered with failed panels", "request_id", requestID, "err", err)
	}
	if p.err != nil && ctx.Err() == nil {
		slog.Error("Unable to write page", "request_id", requestID, "err", p.err)
	}
}

// readInput collects the sidebar values. Query parameters work too, so a
// topic can be linked to directly.
//
// Multipart bodies are read part by part so only the image is size checked:
// an oversized upload becomes ImageErr and the text fields still arrive.
func readInput(r *http.Request) (models.PageInput, error) {
	var input models.PageInput

	// for multipart bodies this only parses the query
	if err := r.ParseForm(); err != nil {
		return input, err
	}
	form := r.Form

	mr, err := r.MultipartReader()
	switch {
	case errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return input, err
	default:
		form = url.Values{}
		if err := readParts(mr, form, &input); err != nil {
			return input, err
		}
		for key, values := range r.URL.Query() {
			form[key] = append(form[key], values...)
		}
	}

	input.Topic = form.Get("topic")
	input.QuestionCount = models.DefaultQuestionCount
	input.Generate = form.Get("generate") != ""
	if form.Has("questions") {
		input.QuestionCount = form.Get("questions")
	}

	if input.Image != nil {
		slog.Info("Image uploaded", "filename", input.Image.Filename, "format", input.Image.Format,
			"width", input.Image.Width, "height", input.Image.Height)
	}

	return input, nil
}

// readParts fills form with the text fields and decodes the first image.
// Running past maxRequestSize ends the form early; whatever arrived is kept
// and a missing image is reported as too large.
func readParts(mr *multipart.Reader, form url.Values, input *models.PageInput) error {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if isTooLarge(err) {
			if input.Image == nil && input.ImageErr == nil {
				input.ImageErr = images.ErrTooLarge
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read form: %w", err)
		}

		name := part.FormName()
		switch {
		case name == "image":
			// an empty file input still sends a part, without a filename
			if part.FileName() != "" && input.Image == nil && input.ImageErr == nil {
				input.Image, input.ImageErr = images.Decode(part, part.FileName())
			}
		case part.FileName() == "":
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
			if err != nil {
				part.Close()
				return fmt.Errorf("failed to read field %s: %w", name, err)
			}
			if len(value) > maxFieldSize {
				part.Close()
				return fmt.Errorf("field %s exceeds %d bytes", name, maxFieldSize)
			}
			form.Add(name, string(value))
		}
		part.Close()
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
