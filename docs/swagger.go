// Package docs provides Swagger documentation for the API.
package docs

// @title BoosterPro Growth Campaign API
// @version 1.0
// @description Control surface for the BoosterPro growth-campaign automation scheduler

// @contact.name API Support
// @contact.email support@boosterpro.io

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
