package dto

type UploadResponse struct {
	ImageURL    string `json:"image_url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
