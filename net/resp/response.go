package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/pagekit/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Error details
	Data    any    `json:"data,omitempty"`    // Response data
}

// Success writes data with status 200.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes data with a custom status. A single string argument
// is sent as {"message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var body any = map[string]any{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		if msg, ok := data[0].(string); ok {
			body = map[string]any{"message": msg}
		} else {
			body = data[0]
		}
	}
	writeJSON(w, statusCode, body)
}

// Fail writes r as an error envelope. A nil r is a server error.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{Status: http.StatusInternalServerError, Code: ecode.ServerErr}
	}
	status, body := buildFailureResponse(r)
	writeJSON(w, status, body)
}

// Error writes err with the code and status ecode assigns to it.
func Error(w http.ResponseWriter, err error) {
	code := ecode.FromError(err)
	Fail(w, &Exception{
		Status:  ecode.ToHTTPStatus(code),
		Code:    code,
		Message: ecode.Text(code),
		Errors:  err.Error(),
	})
}

// BadRequest writes a parameter error.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, &Exception{Status: http.StatusBadRequest, Code: ecode.ParamErr, Message: message})
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, *Exception) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	message := r.Message
	if message == "" {
		message = ecode.Text(code)
	}

	return status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	}
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
