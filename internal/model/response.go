package model

import "math"

type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is a normalized page/limit pair. Number is clamped so Offset stays
// within a 32-bit OFFSET.
type Page struct {
	Number int
	Limit  int
}

func NewPage(number int, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if maxNumber := math.MaxInt32 / limit; number > maxNumber {
		number = maxNumber
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

func (p Page) Meta(total int) *Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return &Meta{Page: p.Number, Limit: p.Limit, Total: total, TotalPages: totalPages}
}
