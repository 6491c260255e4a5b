package pkguid

// StringID hands out string identifiers; task and user ids use it.
type StringID interface {
	Generate() string
}

// NumberID hands out int64 identifiers; event ids use it.
type NumberID interface {
	Generate() int64
}

var (
	_ StringID = (*UUID)(nil)
	_ NumberID = (*Snowflake)(nil)
)
