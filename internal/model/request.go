package model

// LoginRequest is the request body for POST /session.
type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Token string `json:"token" binding:"required"`
}

// SaveUserRequest is the request body for POST /user.
type SaveUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LocationRequest is the request body for PUT /location.
type LocationRequest struct {
	Location string `json:"location"`
}

// SideRequest is the request body for POST /camera/side and /camera/record.
type SideRequest struct {
	Side string `json:"side" binding:"required"`
}

// UploadRequest is the request body for POST /uploads.
type UploadRequest struct {
	File     string  `json:"file"`
	Friends  []int   `json:"friends"`
	Groups   []int   `json:"groups"`
	Location *string `json:"location,omitempty"`
}

// UploadResponse is the response for POST /uploads.
type UploadResponse struct {
	Message string `json:"message"`
}

// OpenPlayerRequest is the request body for POST /player.
type OpenPlayerRequest struct {
	OwnerID  int    `json:"owner_id"`
	Boundary string `json:"boundary"`
}

// DirectionRequest is the request body for the player advance endpoints.
type DirectionRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// MatchContactsRequest is the request body for POST /contacts/match.
type MatchContactsRequest struct {
	Contacts []AddressBookEntry `json:"contacts"`
}

// ContactActionRequest is the request body for POST /contacts/act.
type ContactActionRequest struct {
	Phone  string `json:"phone" binding:"required"`
	Reject bool   `json:"reject"`
}

// CreateGroupRequest is the request body for POST /groups.
type CreateGroupRequest struct {
	Name string `json:"name"`
	IDs  []int  `json:"ids"`
}
