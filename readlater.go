// Package readlater provides the core of a read-it-later archiving service.
// Users save URLs, the service fetches and extracts article content (logging
// into paywalled sites when credentials are configured) and imports bulk
// exports from other services either directly or through a queue.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, bluemonday/).
package readlater
