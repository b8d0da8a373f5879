package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/omreport/handlers"
	"p9e.in/omreport/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/templates", handlers.GetTemplates).Methods("GET")
	api.HandleFunc("/templates", handlers.SaveTemplate).Methods("POST")
	api.HandleFunc("/templates/{id}", handlers.DeleteTemplate).Methods("DELETE")

	api.HandleFunc("/reports", handlers.GetAllReports).Methods("GET")
	api.HandleFunc("/reports", handlers.SaveReport).Methods("POST")
	api.HandleFunc("/reports/{id}", handlers.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.SaveReport).Methods("PUT")
	api.HandleFunc("/reports/{id}", handlers.DeleteReport).Methods("DELETE")
	api.HandleFunc("/reports/{id}/export", handlers.ExportReport).Methods("GET")

	api.HandleFunc("/reports/{id}/photos", handlers.UploadPhotos).Methods("POST")
	api.HandleFunc("/reports/{id}/photos/{photoId}/annotate", handlers.AnnotatePhoto).Methods("POST")
	api.HandleFunc("/reports/{id}/photos/{photoId}", handlers.DeletePhoto).Methods("DELETE")

	api.HandleFunc("/backup", handlers.ExportBackup).Methods("GET")
	api.HandleFunc("/backup", handlers.ImportBackup).Methods("POST")

	api.HandleFunc("/settings/quality", handlers.GetQuality).Methods("GET")
	api.HandleFunc("/settings/quality", handlers.SetQuality).Methods("PUT")

	return r
}
