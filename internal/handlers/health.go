package handlers

import (
	"net/http"

	"github.com/nkiryanov/taskboard/internal/handlers/render"
)

func handleHealth() http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, response{Message: "Server is up!"})
	})
}
