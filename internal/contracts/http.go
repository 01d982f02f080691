// Package contracts holds the JSON shapes shared by the HTTP API and its clients.
package contracts

import "time"

type Envelope[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type ServiceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateServiceRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type DeleteServiceResponse struct {
	ServiceID         string   `json:"service_id"`
	DeletedEventIDs   []string `json:"deleted_event_ids"`
	SurvivingEventIDs []string `json:"surviving_event_ids,omitempty"`
}

type EventResponse struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service_id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Highlight bool      `json:"highlight"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEventRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type GridCell struct {
	ServiceID string          `json:"service_id"`
	Events    []EventResponse `json:"events"`
}

type GridRow struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Start string     `json:"start"`
	End   string     `json:"end"`
	Cells []GridCell `json:"cells"`
}

type GridResponse struct {
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Mode       string            `json:"mode"`
	Order      string            `json:"order"`
	Label      string            `json:"label"`
	CurrentRow int               `json:"current_row"`
	Services   []ServiceResponse `json:"services"`
	Rows       []GridRow         `json:"rows"`
}

type SignInRequest struct {
	Credential string `json:"credential"`
}

type SessionResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
