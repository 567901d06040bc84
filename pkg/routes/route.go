package routes

import "net/http"

// Route pairs a method and path pattern with the handler that serves it.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
