package types

// TagResult is what a vision model reports about an image.
type TagResult struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
}

// Caption is a generated text together with the inputs that produced it.
type Caption struct {
	Kind   string   `json:"kind"`
	Tags   []string `json:"tags"`
	Prompt string   `json:"prompt"`
	Text   string   `json:"text"`
}

// ServiceConfig selects and addresses the caption backend. Everything the
// backend needs arrives through this struct; nothing is read from the
// environment.
type ServiceConfig struct {
	// Backend is "ollama" or "llamacpp"; empty disables captions.
	Backend   string `json:"backend"`
	URL       string `json:"url"`
	APIKey    string `json:"api_key,omitempty"`
	TagModel  string `json:"tag_model"`
	TextModel string `json:"text_model"`
	// TimeoutSeconds bounds each request; zero uses the backend default.
	TimeoutSeconds int `json:"timeout_seconds"`
	// MaxImageDim caps the longer side of the image sent for tagging.
	MaxImageDim int `json:"max_image_dim"`
}
