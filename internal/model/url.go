package model

// ShortURL is one row of the short_urls table. ID is assigned by the store;
// records are never updated or deleted.
type ShortURL struct {
	ID          int64  `json:"id"`
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
}
