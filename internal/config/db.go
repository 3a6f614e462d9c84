package config

// DB holds the database configuration settings.
type DB struct {
	Path   string // path to the sqlite database file
	Extras string // extra DSN parameters appended verbatim
}
