package domain

type Message struct {
	ID       int
	ChatID   int64
	Username string
	Text     string
	ImageURL string
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)

// TransformRequest is one user action: an image and the style to apply to it.
type TransformRequest struct {
	Image EncodedImage
	Style string
}

type TransformResult struct {
	// TransformedImage is the media URL returned by the model, normally a data URI.
	TransformedImage string `json:"transformedImage"`
}

// ModelRequest is what a style model receives.
type ModelRequest struct {
	Image       EncodedImage
	Instruction string
	// Modalities lists the response modalities the model may produce.
	Modalities []string
}

type Media struct {
	URL         string
	ContentType string
}

type ModelResponse struct {
	Media *Media
	Text  string
}

const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
)

type ShrinkResult struct {
	Image   EncodedImage
	Width   int
	Height  int
	Quality float64
	Passes  int
}
