package sqlgen

import "fmt"

// ErrorLogTable is the fixed error-log table ADMIN_DROP_SCHEMA writes its
// diagnostics to. The executor drops it after a schema drop.
const (
	ErrorLogSchema = "ERRORSCHEMA"
	ErrorLogTable  = "ERRORTABLE"
)

// ShowTables builds the catalog query listing base tables of a schema.
func (g *Generator) ShowTables(schema string) *Query {
	return &Query{SQL: fmt.Sprintf(
		showTablesPrefix+`, TRIM(TABSCHEMA) AS "schema" FROM SYSCAT.TABLES WHERE TABSCHEMA = '%s' AND TYPE = 'T' ORDER BY TABSCHEMA, TABNAME`,
		escapeString(schema))}
}

// Describe builds the catalog query describing a table's columns.
func (g *Generator) Describe(table, schema string) *Query {
	sql := fmt.Sprintf(
		describePrefix+`, TRIM(COLTYPE) AS "Type", LENGTH AS "Length", SCALE AS "Scale", NULLS AS "IsNull", DEFAULT AS "Default", COLNO AS "Colno", IDENTITY AS "IsIdentity", KEYSEQ AS "KeySeq", REMARKS AS "Comment" FROM SYSIBM.SYSCOLUMNS WHERE TBNAME = '%s'`,
		escapeString(table))
	if schema != "" {
		sql += fmt.Sprintf(" AND TBCREATOR = '%s'", escapeString(schema))
	}
	return &Query{SQL: sql + " ORDER BY COLNO"}
}

// ShowIndexes builds the catalog query listing a table's indexes. COLNAMES
// comes back as a sign-prefixed column list (+A-B) that the normalizer
// parses into ordered attribute entries.
func (g *Generator) ShowIndexes(table string) *Query {
	return &Query{SQL: fmt.Sprintf(
		showIndexesPrefix+`, UNIQUERULE AS "keyType", COLNAMES, INDEXTYPE AS "type" FROM SYSIBM.SYSINDEXES WHERE TBNAME = '%s' ORDER BY NAME`,
		escapeString(table))}
}

// ShowConstraints builds the catalog query listing a table's constraints.
func (g *Generator) ShowConstraints(table string) *Query {
	return &Query{SQL: fmt.Sprintf(
		showConstraintsPrefix+`, TRIM(TABSCHEMA) AS "schemaName", TABNAME AS "tableName", TYPE AS "constraintType" FROM SYSCAT.TABCONST WHERE TABNAME = '%s'`,
		escapeString(table))}
}

// ForeignKeys builds the catalog query listing the foreign keys referencing
// or declared on a table.
func (g *Generator) ForeignKeys(table, schema string) *Query {
	sql := fmt.Sprintf(
		foreignKeysPrefix+`, TRIM(R.TABSCHEMA) AS "schemaName", R.TABNAME AS "tableName", TRIM(R.FK_COLNAMES) AS "columnNames", TRIM(R.REFTABSCHEMA) AS "referencedTableSchema", R.REFTABNAME AS "referencedTableName", TRIM(R.PK_COLNAMES) AS "referencedColumnNames" FROM SYSCAT.REFERENCES R WHERE R.TABNAME = '%s'`,
		escapeString(table))
	if schema != "" {
		sql += fmt.Sprintf(" AND R.TABSCHEMA = '%s'", escapeString(schema))
	}
	return &Query{SQL: sql}
}

// Version builds the query reporting the server service level.
func (g *Generator) Version() *Query {
	return &Query{SQL: `SELECT SERVICE_LEVEL AS "version" FROM TABLE (` + versionMarker + `()) AS INSTANCEINFO`}
}

// DropSchema builds the ADMIN_DROP_SCHEMA call that drops a schema and all
// objects in it, logging failures to the fixed error-log table.
func (g *Generator) DropSchema(schema string) *Query {
	return &Query{SQL: fmt.Sprintf(
		dropSchemaPrefix+"('%s', NULL, '%s', '%s')",
		escapeString(schema), ErrorLogSchema, ErrorLogTable)}
}
