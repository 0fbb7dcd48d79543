package dto

type EventResponse struct {
	Key     string `json:"key"`
	Changed bool   `json:"changed"`
}
