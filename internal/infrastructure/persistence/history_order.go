package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

const defaultHistoryOrderColumn = "started_at"

// historyOrderColumns lists the import_history columns a listing may be ordered by.
// Anything else falls back to the start time.
var historyOrderColumns = map[string]bool{
	"started_at":   true,
	"completed_at": true,
	"file_name":    true,
	"file_size":    true,
	"rows_loaded":  true,
	"status":       true,
}

// historyOrder builds the ORDER BY of an import history listing. Unknown
// columns and directions never reach the SQL text; newest first is the default.
func historyOrder(orderBy, orderDir string) clause.OrderByColumn {
	column := strings.TrimSpace(orderBy)
	if !historyOrderColumns[column] {
		column = defaultHistoryOrderColumn
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(orderDir), "asc"),
	}
}
