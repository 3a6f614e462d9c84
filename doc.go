// Package main provides the entry point for the picshed image-hosting service.
// It initializes and runs a web server using the Fiber framework that lets
// clients upload image files, retrieve them through stable URLs, and manage
// them through a small admin API. The application uses gorm for metadata
// persistence and a flat directory on disk for the image bytes, with a set of
// runtime settings stored alongside the metadata.
package main
