package httpapi

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type purchaseResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	OrderID        string `json:"orderId"`
	RemainingStock int64  `json:"remainingStock"`
}

type stockResponse struct {
	ItemID string `json:"itemId"`
	Stock  int64  `json:"stock"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}
