package usage

import "time"

// Usage represents an employer's plan consumption snapshot for interview
// sessions in the current period.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}
