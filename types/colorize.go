package types

// Form field names of the colorization endpoint.
const (
	FieldImageFile         = "image_file"
	FieldModelChoice       = "model_choice"
	FieldDetailEnhancement = "detail_enhancement"
	FieldIntensity         = "intensity"
	FieldHueShift          = "hue_shift"
	FieldSaturationScale   = "saturation_scale"
	FieldAutoColorCorrect  = "auto_color_correct"
)

// ColorizeResponse is the 200 body of POST /api/image-colorizer.
type ColorizeResponse struct {
	Message           string `json:"message"`
	OriginalImageUrl  string `json:"originalImageUrl"`
	ColorizedImageUrl string `json:"colorizedImageUrl"`
	Warning           string `json:"warning,omitempty"` // non-critical issue reported by the backend
}

// ColorizeError is the one error shape every failed colorization is normalized into.
type ColorizeError struct {
	Reason  string `json:"error"`
	Warning string `json:"warning,omitempty"` // backend may warn even when failing
}

func (e *ColorizeError) Error() string {
	return e.Reason
}

// ColorizePayload is the multipart body of one colorization job.
type ColorizePayload struct {
	FileName string
	MimeType string
	Data     []byte
	Fields   map[string]string // stringified parameters, keyed by form field name
}
