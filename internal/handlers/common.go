package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/lehigh-university-libraries/anatomymentor/internal/stream"
	"github.com/lehigh-university-libraries/anatomymentor/internal/web"
)

// Tutor produces the text shown in each panel
type Tutor interface {
	AnalyzeTopic(ctx context.Context, topic string) (models.ModelResponse, error)
	GenerateQuestions(ctx context.Context, topic, count string) (models.ModelResponse, error)
	AnalyzeImage(ctx context.Context, img *models.UploadedImage) (models.ModelResponse, error)
}

type Handler struct {
	tutor     Tutor
	emitter   stream.Emitter
	templates *template.Template
	static    fs.FS
}

func New(tutor Tutor, emitter stream.Emitter) (*Handler, error) {
	templates, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Handler{
		tutor:     tutor,
		emitter:   emitter,
		templates: templates,
		static:    static,
	}, nil
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// HandleHealthcheck reports liveness
func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
