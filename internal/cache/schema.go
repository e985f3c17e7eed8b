package cache

// All cache tables share one layout keyed by "cache_key". Times are unix seconds.

// OpenLibraryCacheSchema caches Open Library edition lookups by ISBN
const OpenLibraryCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_expires_at ON openlibrary_cache(expires_at);
`

// OpenLibraryTable is the table name used by the Open Library cover lookup
const OpenLibraryTable = "openlibrary_cache"

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	OpenLibraryCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	OpenLibraryTable: true,
}

// cacheSources maps the names accepted by "cache invalidate" to tables
var cacheSources = map[string]string{
	"openlibrary": OpenLibraryTable,
}
