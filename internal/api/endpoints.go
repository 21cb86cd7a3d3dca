package api

import (
	"context"

	"github.com/psds-microservice/citypeople-service/internal/model"
)

// Videos fetches the feed.
func (c *Client) Videos(ctx context.Context) ([]model.VideoRecord, error) {
	var resp model.VideosResponse
	if err := c.postJSON(ctx, EndpointVideos, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, rejected(resp.Message)
	}
	if resp.Videos == nil {
		return []model.VideoRecord{}, nil
	}
	return resp.Videos, nil
}

// UploadVideo posts the recording with its recipients and location.
func (c *Client) UploadVideo(ctx context.Context, filePath string, friends, groups []int, location string) (model.Success, error) {
	fields := []Field{{Name: ParamLocation, Value: location}}
	fields = append(fields, IDFields(ParamFriends, friends)...)
	fields = append(fields, IDFields(ParamGroups, groups)...)
	var resp model.Success
	if err := c.postMultipart(ctx, EndpointSendVideo, fields, ParamVideo, filePath, &resp); err != nil {
		return model.Success{}, err
	}
	if !resp.Status {
		return resp, rejected(resp.Message)
	}
	return resp, nil
}

// Contacts matches phone numbers against registered users.
func (c *Client) Contacts(ctx context.Context, phones []string) ([]model.Friend, error) {
	var resp model.FriendResponse
	if err := c.postJSON(ctx, EndpointContacts, map[string]any{ParamContacts: phones}, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, rejected(resp.Message)
	}
	if resp.Users == nil {
		return []model.Friend{}, nil
	}
	return resp.Users, nil
}

// AddFriend sends a friend request.
func (c *Client) AddFriend(ctx context.Context, friendID int) (model.Success, error) {
	var resp model.Success
	err := c.postJSON(ctx, EndpointAddFriend, map[string]any{ParamFriendID: friendID}, &resp)
	return resp, err
}

// RespondFriend accepts or rejects a received request.
func (c *Client) RespondFriend(ctx context.Context, friendID int, accept bool) (model.Success, error) {
	flag := 0
	if accept {
		flag = 1
	}
	var resp model.Success
	err := c.postJSON(ctx, EndpointAccept, map[string]any{ParamFriendID: friendID, ParamAccept: flag}, &resp)
	return resp, err
}

// CreateGroup creates a named group of friends.
func (c *Client) CreateGroup(ctx context.Context, name string, ids []int) (model.Success, error) {
	if ids == nil {
		ids = []int{}
	}
	var resp model.Success
	err := c.postJSON(ctx, EndpointCreateGroup, map[string]any{ParamName: name, ParamIDs: ids}, &resp)
	return resp, err
}

// SaveUser stores the display name of the signed-in user.
func (c *Client) SaveUser(ctx context.Context, name string) (model.UserResponse, error) {
	var resp model.UserResponse
	err := c.postJSON(ctx, EndpointUser, map[string]any{ParamName: name}, &resp)
	return resp, err
}
