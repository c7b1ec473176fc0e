package executor

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/db2-go/driver"
	"github.com/satishbabariya/db2-go/model"
	"github.com/satishbabariya/db2-go/query/sqlgen"
)

// WriteResult pairs a write operation's result with the affected row count.
type WriteResult struct {
	Value        interface{}
	RowsAffected int64
}

// RawResult pairs raw-query rows with their column metadata.
type RawResult struct {
	Rows    []driver.RawRow
	Columns []driver.ColumnMetadata
}

// TableInfo is one entry of a show-tables result.
type TableInfo struct {
	TableName string
	Schema    string
}

// ColumnDescription is one entry of a describe result.
type ColumnDescription struct {
	Type          string
	AllowNull     bool
	DefaultValue  string
	PrimaryKey    bool
	AutoIncrement bool
	Comment       string
}

// IndexField is one ordered column of an index.
type IndexField struct {
	Attribute string
	Order     string // "ASC" or "DESC"
}

// IndexDescription is one entry of a show-indexes result.
type IndexDescription struct {
	Name      string
	TableName string
	Unique    bool
	Primary   bool
	Fields    []IndexField
}

// normalize coerces raw cell values and reshapes the rows according to the
// statement class.
func (e *Executor) normalize(ctx context.Context, res *driver.Result, class sqlgen.StatementClass, opts *sqlgen.Options) (interface{}, error) {
	e.coerce(res)

	switch class {
	case sqlgen.ClassInsert:
		return &WriteResult{Value: e.handleInsert(res, opts), RowsAffected: res.Affected}, nil

	case sqlgen.ClassUpdate:
		var value interface{} = res.Rows
		if opts.Instance != nil {
			value = opts.Instance
		}
		return &WriteResult{Value: value, RowsAffected: res.Affected}, nil

	case sqlgen.ClassShowTables:
		return normalizeShowTables(res.Rows), nil

	case sqlgen.ClassDescribe:
		return normalizeDescribe(res.Rows), nil

	case sqlgen.ClassShowIndexes:
		return normalizeShowIndexes(res.Rows), nil

	case sqlgen.ClassShowConstraints:
		return normalizeShowConstraints(res.Rows), nil

	case sqlgen.ClassUpsert, sqlgen.ClassCall:
		return firstRow(res.Rows), nil

	case sqlgen.ClassBulkUpdate:
		return int64(len(res.Rows)), nil

	case sqlgen.ClassBulkDelete:
		return res.Affected, nil

	case sqlgen.ClassDropSchema:
		// ADMIN_DROP_SCHEMA leaves its error-log table behind; drop it
		// synchronously before returning.
		_, _ = e.conn.Query(ctx, "DROP TABLE "+sqlgen.ErrorLogSchema+"."+sqlgen.ErrorLogTable)
		return firstRow(res.Rows), nil

	case sqlgen.ClassRaw:
		return &RawResult{Rows: res.Rows, Columns: res.Columns}, nil
	}

	// Select, Version, ForeignKeys and anything else: the row list as-is.
	return res.Rows, nil
}

// handleInsert writes the generated id onto the bound instance and picks
// the insert return value.
func (e *Executor) handleInsert(res *driver.Result, opts *sqlgen.Options) interface{} {
	if opts.Instance != nil && opts.Model != nil {
		if ai := opts.Model.AutoIncrementAttribute(); ai != nil {
			opts.Instance.Set(ai.Name, insertID(res, ai))
		}
	}

	if opts.Plain {
		row := firstRow(res.Rows)
		if row == nil || len(res.Columns) == 0 {
			return nil
		}
		return row[res.Columns[0].Name]
	}
	if opts.Instance == nil {
		return res.Rows
	}
	return opts.Instance
}

// insertID resolves the generated id by trying, in order: the first row's
// id field, the driver-reported insert id, the first row's raw identity
// column, the first row's aliased attribute name. First non-empty candidate
// wins; the documented order is preserved even when candidates conflict.
// Nil when nothing matched — that is not an error.
func insertID(res *driver.Result, ai *model.Attribute) interface{} {
	var row driver.RawRow
	if len(res.Rows) > 0 {
		row = res.Rows[0]
	}

	var candidates []interface{}
	if row != nil {
		candidates = append(candidates, row["id"])
	}
	candidates = append(candidates, res.InsertID)
	if row != nil {
		candidates = append(candidates, row[ai.ColumnName()], row[ai.Name])
	}

	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// coerce applies type-directed value coercion to every non-null cell,
// using a type-code to type-name lookup built from the column metadata.
func (e *Executor) coerce(res *driver.Result) {
	if len(res.Rows) == 0 || len(res.Columns) == 0 {
		return
	}

	typeNames := make(map[int]string, len(res.Columns))
	for _, c := range res.Columns {
		typeNames[c.TypeID] = c.TypeName
	}

	for _, row := range res.Rows {
		for _, col := range res.Columns {
			v, ok := row[col.Name]
			if !ok || v == nil {
				continue
			}
			typeName := typeNames[col.TypeID]
			if parser, found := e.parsers.Lookup(typeName); found {
				if parsed, err := parser(v); err == nil {
					row[col.Name] = parsed
				}
				continue
			}
			row[col.Name] = coerceBuiltin(typeName, v)
		}
	}
}

// DB2 CLI timestamp text layouts.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02-15.04.05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// coerceBuiltin applies the built-in coercions: timestamps to UTC
// date-times, BLOB to bytes, FOR BIT DATA hex text to bytes.
func coerceBuiltin(typeName string, v interface{}) interface{} {
	switch {
	case strings.HasPrefix(typeName, "TIMESTAMP"):
		switch x := v.(type) {
		case time.Time:
			return x.UTC()
		case string:
			for _, layout := range timestampLayouts {
				if t, err := time.ParseInLocation(layout, x, time.UTC); err == nil {
					return t
				}
			}
		}

	case strings.HasSuffix(typeName, "FOR BIT DATA"):
		if s, ok := v.(string); ok {
			if b, err := hex.DecodeString(s); err == nil {
				return b
			}
		}

	case strings.Contains(typeName, "BLOB"):
		switch x := v.(type) {
		case []byte:
			return x
		case string:
			return []byte(x)
		}
	}
	return v
}

func normalizeShowTables(rows []driver.RawRow) []TableInfo {
	out := make([]TableInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, TableInfo{
			TableName: cellString(row, "tableName"),
			Schema:    cellString(row, "schema"),
		})
	}
	return out
}

// defaultValueCleaner strips the wrapping ('...') markers and embedded
// quote characters the catalog stores around column defaults.
var defaultValueCleaner = strings.NewReplacer("(", "", ")", "", "'", "")

func normalizeDescribe(rows []driver.RawRow) map[string]ColumnDescription {
	out := make(map[string]ColumnDescription, len(rows))
	for _, row := range rows {
		name := cellString(row, "Name")
		if name == "" {
			continue
		}
		out[name] = ColumnDescription{
			Type:          cellString(row, "Type"),
			AllowNull:     cellString(row, "IsNull") == "Y",
			DefaultValue:  defaultValueCleaner.Replace(cellString(row, "Default")),
			PrimaryKey:    cellInt(row, "KeySeq") > 0,
			AutoIncrement: cellString(row, "IsIdentity") == "Y",
			Comment:       cellString(row, "Comment"),
		}
	}
	return out
}

func normalizeShowIndexes(rows []driver.RawRow) []IndexDescription {
	var out []IndexDescription
	seen := map[string]bool{}
	for _, row := range rows {
		name := cellString(row, "name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		keyType := cellString(row, "keyType")
		out = append(out, IndexDescription{
			Name:      name,
			TableName: cellString(row, "tableName"),
			Unique:    keyType == "U" || keyType == "P",
			Primary:   keyType == "P",
			Fields:    parseColNames(cellString(row, "COLNAMES")),
		})
	}
	return out
}

// parseColNames parses a sign-prefixed column list like +A-B into ordered
// field entries: + means ASC, - means DESC.
func parseColNames(colNames string) []IndexField {
	var fields []IndexField
	flush := func(name, order string) {
		if name != "" {
			fields = append(fields, IndexField{Attribute: name, Order: order})
		}
	}

	current := ""
	order := "ASC"
	for _, r := range colNames {
		switch r {
		case '+':
			flush(current, order)
			current, order = "", "ASC"
		case '-':
			flush(current, order)
			current, order = "", "DESC"
		default:
			current += string(r)
		}
	}
	flush(current, order)
	return fields
}

// normalizeShowConstraints drops system-generated constraints, recognized
// by their SQL name prefix.
func normalizeShowConstraints(rows []driver.RawRow) []driver.RawRow {
	out := make([]driver.RawRow, 0, len(rows))
	for _, row := range rows {
		if strings.HasPrefix(cellString(row, "constraintName"), "SQL") {
			continue
		}
		out = append(out, row)
	}
	return out
}

func firstRow(rows []driver.RawRow) driver.RawRow {
	if len(rows) == 0 {
		return nil
	}
	return rows[0]
}

func cellString(row driver.RawRow, key string) string {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	}
	return ""
}

func cellInt(row driver.RawRow, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}
