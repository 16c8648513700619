package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	ErrorTypeIndexNotFound    = "index_not_found_exception"
	ErrorTypeResourceNotFound = "resource_not_found_exception"
	ErrorTypeAlreadyExists    = "resource_already_exists_exception"
)

// ServiceError is an error response returned by the search service
type ServiceError struct {
	Status int
	Type   string
	Reason string
}

func (e *ServiceError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("search service returned status %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("search service returned status %d [%s]: %s", e.Status, e.Type, e.Reason)
}

// IsNotFound reports whether err is a "not found" response from the service
func IsNotFound(err error) bool {
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		return false
	}
	return serviceErr.Status == http.StatusNotFound ||
		serviceErr.Type == ErrorTypeIndexNotFound ||
		serviceErr.Type == ErrorTypeResourceNotFound
}

// IsAlreadyExists reports whether err is a conflict because the resource already exists
func IsAlreadyExists(err error) bool {
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		return false
	}
	return serviceErr.Type == ErrorTypeAlreadyExists
}

// errorResponse is the error envelope of the search service
type errorResponse struct {
	Status int `json:"status"`
	Error  struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// CheckResponse turns an error response into a *ServiceError and returns nil otherwise.
// The response body is consumed only when it is an error.
func CheckResponse(res *esapi.Response) error {
	if res == nil {
		return fmt.Errorf("nil response from search service")
	}
	if !res.IsError() {
		return nil
	}

	serviceErr := &ServiceError{Status: res.StatusCode}
	if res.Body == nil {
		serviceErr.Reason = http.StatusText(res.StatusCode)
		return serviceErr
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		serviceErr.Reason = fmt.Sprintf("read error body: %v", err)
		return serviceErr
	}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Type == "" {
		// HEAD responses and some proxies return no structured body
		serviceErr.Reason = string(body)
		if serviceErr.Reason == "" {
			serviceErr.Reason = http.StatusText(res.StatusCode)
		}
		return serviceErr
	}

	serviceErr.Type = envelope.Error.Type
	serviceErr.Reason = envelope.Error.Reason
	return serviceErr
}

// CloseResponse drains and closes a response body
func CloseResponse(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
