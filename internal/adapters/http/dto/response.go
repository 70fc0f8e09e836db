// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "github.com/quoteshorts/api/internal/domain"

// Response is the envelope every endpoint answers with. Data carries the
// payload on success; Message carries the error text on failure. Errors
// holds field-level detail for validation failures.
type Response struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	TraceID    string            `json:"traceId,omitempty"`
}

// OK wraps a payload in a success envelope.
func OK(data any) *Response {
	return &Response{Success: true, Data: data}
}

// OKPage wraps a payload and its pagination block.
func OKPage(data any, pagination *Pagination) *Response {
	return &Response{Success: true, Data: data, Pagination: pagination}
}

// OKMessage wraps a success with no payload, message only.
func OKMessage(message string) *Response {
	return &Response{Success: true, Message: message}
}

// Fail builds a failure envelope with a human-readable message.
func Fail(message string) *Response {
	return &Response{Success: false, Message: message}
}

// FailFields builds a failure envelope with field-level validation detail.
func FailFields(message string, fields map[string]string) *Response {
	return &Response{Success: false, Message: message, Errors: fields}
}

// Pagination describes the window a paginated response covers. HasNext and
// HasPrev are pointers so endpoints that do not expose navigation hints can
// leave them out of the JSON entirely.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasNext    *bool `json:"hasNext,omitempty"`
	HasPrev    *bool `json:"hasPrev,omitempty"`
}

// NewPagination converts a domain page to the full pagination block.
func NewPagination(page *domain.QuotePage) *Pagination {
	hasNext, hasPrev := page.HasNext, page.HasPrev

	return &Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasNext:    &hasNext,
		HasPrev:    &hasPrev,
	}
}

// NewWindowPagination converts a domain page to a pagination block without
// the navigation hints. Search results use this shape.
func NewWindowPagination(page *domain.QuotePage) *Pagination {
	return &Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
