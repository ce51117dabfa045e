package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform body of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Page is the envelope of paginated list responses.
type Page struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, r *http.Request, code int, data interface{}, message string) {
	JSON(w, r, code, Envelope{Success: true, Data: data, Message: message})
}

func Paginated(w http.ResponseWriter, r *http.Request, data interface{}, total int64, limit, offset int) {
	JSON(w, r, http.StatusOK, Page{Success: true, Data: data, Total: total, Limit: limit, Offset: offset})
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, Envelope{Success: false, Error: message})
}

func NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
