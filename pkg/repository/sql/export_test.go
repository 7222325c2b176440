package sql

var (
	RebindForTest    = rebind
	SQLiteDSNForTest = sqliteDSN
)
