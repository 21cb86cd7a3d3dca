package model

// RequestStatus is the friend-request state between the current user and another user.
type RequestStatus int

const (
	RequestStatusNone RequestStatus = iota
	RequestStatusSent
	RequestStatusReceived
)

// Title is the label of the action button for this status.
func (s RequestStatus) Title() string {
	switch s {
	case RequestStatusSent:
		return "Requested"
	case RequestStatusReceived:
		return "Accept"
	default:
		return "Add"
	}
}

// Friend is a registered user matched from the address book.
type Friend struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	AlreadyFriend bool          `json:"already_friend"`
	RequestStatus RequestStatus `json:"request_status"`
}

// FriendResponse is the body of POST contacts.
type FriendResponse struct {
	Users   []Friend `json:"users"`
	Message *string  `json:"message,omitempty"`
	Status  bool     `json:"status"`
}

// AddressBookEntry is a contact as read from the device, before matching.
type AddressBookEntry struct {
	Name   string   `json:"name" binding:"required"`
	Phones []string `json:"phones"`
}

// Contact is an address book entry annotated with its registration state.
type Contact struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	IsRegistered  bool          `json:"is_registered"`
	RequestStatus RequestStatus `json:"request_status"`
	IsFriend      bool          `json:"is_friend"`
	Action        string        `json:"action"`
}

// UserResponse is the body of POST user.
type UserResponse struct {
	User struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	} `json:"user"`
	Status bool `json:"status"`
}
