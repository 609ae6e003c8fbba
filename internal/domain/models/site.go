// internal/domain/models/site.go
package models

// DefaultSiteName is the product name used in page titles and emails
// when no site_name is configured.
const DefaultSiteName = "NeuroNest"
