// Package prompt builds the instructions sent to the tutoring model.
//
// Input is substituted as-is: topics and counts are never trimmed, escaped or
// validated, so whatever the student typed reaches the model unchanged.
package prompt

// Analysis asks for an explanation of an anatomy topic
func Analysis(topic string) string {
	return "Explain anatomy for this topic: " + topic
}

// Questions asks for count multiple-choice questions on topic.
// count is free text and is not parsed.
func Questions(topic, count string) string {
	return "generate " + count + " mcqs questions for this topic: " + topic
}

// Image is the fixed instruction used for uploaded images.
// It does not describe the image itself.
func Image() string {
	return "Explain the anatomy of the structure in this image."
}
