package dto

type CreateReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Body      string `json:"body"`
	Name      string `json:"name"`
	Image     string `json:"image"`
}

type UploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}
