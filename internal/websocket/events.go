package websocket

import (
	"encoding/json"
	"strings"
	"time"
)

// EventName определяет имена событий протокола
type EventName string

const (
	// Входящие
	EventJoinClubRoom    EventName = "join_club_room"
	EventLeaveClubRoom   EventName = "leave_club_room"
	EventSendClubMessage EventName = "send_club_message"

	// Исходящие
	EventReceiveClubMessage EventName = "receive_club_message"
	EventNotification       EventName = "notification"
	EventError              EventName = "error"
)

type Envelope struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SendClubMessagePayload struct {
	ClubID     string `json:"clubId"`
	SenderID   string `json:"senderId"`
	Content    string `json:"content"`
	SenderName string `json:"senderName"`
	SenderPic  string `json:"senderPic"`
}

type SenderInfo struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

type ClubMessagePayload struct {
	ID        string     `json:"id"`
	ClubID    string     `json:"clubId"`
	Sender    SenderInfo `json:"sender"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Encode собирает кадр {"event": ..., "data": ...}
func Encode(event EventName, data interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// parseRoomID принимает как "club-id", так и {"roomId": "club-id"}
func parseRoomID(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		id = strings.TrimSpace(id)
		if id == "" {
			return "", ErrInvalidMessage
		}
		return id, nil
	}

	var obj struct {
		RoomID string `json:"roomId"`
		ClubID string `json:"clubId"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", ErrInvalidMessage
	}
	id = strings.TrimSpace(obj.RoomID)
	if id == "" {
		id = strings.TrimSpace(obj.ClubID)
	}
	if id == "" {
		return "", ErrInvalidMessage
	}
	return id, nil
}
