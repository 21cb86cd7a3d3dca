package model

// VideoRecord is one clip as returned by the feed endpoint. Immutable once received.
type VideoRecord struct {
	ID          int    `json:"id"`
	OwnerID     int    `json:"user_id"`
	Location    string `json:"location"`
	DisplayName string `json:"name"`
	MediaURL    string `json:"url"`
}

// UserVideoGroup holds every clip of one uploader, in feed order.
type UserVideoGroup struct {
	OwnerID     int           `json:"owner_id"`
	DisplayName string        `json:"name"`
	Videos      []VideoRecord `json:"videos"`
}

// UploadJob describes a single send action. Never persisted.
type UploadJob struct {
	LocalFile    string
	RecipientIDs []int
	GroupIDs     []int
	Location     string
}

// VideosResponse is the body of POST videos.
type VideosResponse struct {
	Status  bool          `json:"status"`
	Videos  []VideoRecord `json:"videos"`
	Message *string       `json:"message,omitempty"`
}

// Success is the generic {status, message} envelope.
type Success struct {
	Status  bool    `json:"status"`
	Message *string `json:"message,omitempty"`
}

// Text returns the message or "".
func (s Success) Text() string {
	if s.Message == nil {
		return ""
	}
	return *s.Message
}
