package controllers

import (
	"net/http"

	"github.com/barstockapp/barstock-backend/api/middleware"
	"github.com/barstockapp/barstock-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "public", "status": "ok"}
		if operator := middleware.OperatorFromContext(r.Context()); operator != "" {
			payload["operator"] = operator
		}
		responses.WriteSuccess(w, payload)
	}
}
