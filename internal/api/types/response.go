// internal/api/types/response.go
package types

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse wraps a collection payload. T is the element type.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}
