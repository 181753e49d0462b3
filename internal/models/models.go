package models

import "encoding/base64"

// DefaultQuestionCount is the question count the sidebar starts with
const DefaultQuestionCount = "10"

// UploadedImage represents an image uploaded for one page render
type UploadedImage struct {
	Filename string
	Format   string // "jpeg", "png", "gif"
	Data     []byte
	Width    int
	Height   int
}

// MIMEType returns the content type matching the decoded format
func (u *UploadedImage) MIMEType() string {
	return "image/" + u.Format
}

// DataURI returns the raw upload as an inline data URI for display
func (u *UploadedImage) DataURI() string {
	return "data:" + u.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}

// ModelResponse is the text produced for one panel.
// Fallback is set when the model gave no usable answer and Text holds the fallback sentence.
type ModelResponse struct {
	Text     string
	Fallback bool
}

// PageInput holds everything the user submitted for one render
type PageInput struct {
	Topic         string
	QuestionCount string
	Generate      bool
	Image         *UploadedImage
	ImageErr      error
}
