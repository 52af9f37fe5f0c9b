package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in response.Envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "code": "NOT_FOUND", "error": "group not found", "details": ...}
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch e := v.(type) {
	case response.Envelope, *response.Envelope:
		return v, nil
	case *APIError:
		return response.Failure(e.Code, e.Message, e.Details), nil
	case *domainerrors.Error:
		return response.Failure(string(e.Code), e.Message, e.Details), nil
	}

	code, err := strconv.Atoi(status)
	if err == nil && code >= 400 {
		msg := ""
		if e, ok := v.(error); ok {
			msg = e.Error()
		}
		return response.Failure(statusToCode(code), msg, nil), nil
	}

	return response.Envelope{Success: true, Data: v}, nil
}
