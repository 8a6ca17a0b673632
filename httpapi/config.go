package httpapi

// Config defines content server settings.
type Config struct {
	Addr     string
	BasePath string
	// DataDir is a site root holding data/<page>.json. Empty serves the
	// embedded pages.
	DataDir string
}
