// Package main provides the entry point for the ChiroFind backend.
// It runs an HTTP JSON API built on the Fiber framework that serves a
// chiropractor directory and blog: public read endpoints for listings,
// posts and site settings, and an authenticated admin area where every
// write is validated, sanitized and recorded in an audit trail.
// The application uses gorm for data persistence.
package main
