package storage

// TableMeta is the persisted metadata recorded when a table is created
type TableMeta struct {
	Name       string       `json:"name"`
	PrimaryKey string       `json:"primary_key,omitempty"`
	Columns    []ColumnMeta `json:"columns"`
}

// ColumnMeta describes one declared column. Type is informational only.
type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// TableInfo is what a directory scan reports about one table container
type TableInfo struct {
	Name string
	Size int64 // bytes of persisted row content
}
