package sqlgen

import "strings"

// StatementClass is the derived classification of a finalized statement.
// It is never stored: it is recomputed from the final SQL text (plus option
// flags set earlier in the pipeline) at every step that needs it.
type StatementClass int

const (
	ClassRaw StatementClass = iota
	ClassSelect
	ClassInsert
	ClassUpdate
	ClassDelete
	ClassUpsert
	ClassBulkUpdate
	ClassBulkDelete
	ClassShowTables
	ClassShowIndexes
	ClassShowConstraints
	ClassDescribe
	ClassForeignKeys
	ClassVersion
	ClassDropSchema
	ClassCall
	ClassBegin
	ClassCommit
	ClassRollback
	ClassSavepoint
)

// Statement openers. The catalog prefixes match the exact text the catalog
// builders produce.
const (
	beginPrefix     = "BEGIN TRANSACTION"
	commitPrefix    = "COMMIT TRANSACTION"
	rollbackPrefix  = "ROLLBACK TRANSACTION"
	savepointPrefix = "SAVE TRANSACTION"

	deletePrefix     = "DELETE FROM "
	dropSchemaPrefix = "CALL SYSPROC.ADMIN_DROP_SCHEMA"

	finalTableInsertPrefix = "SELECT * FROM FINAL TABLE (INSERT"
	finalTableUpdatePrefix = "SELECT * FROM FINAL TABLE (UPDATE"

	showTablesPrefix      = `SELECT TABNAME AS "tableName"`
	describePrefix        = `SELECT NAME AS "Name", TBNAME AS "Table"`
	showIndexesPrefix     = `SELECT NAME AS "name", TBNAME AS "tableName"`
	showConstraintsPrefix = `SELECT CONSTNAME AS "constraintName"`
	foreignKeysPrefix     = `SELECT R.CONSTNAME AS "constraintName"`

	versionMarker = "SYSPROC.ENV_GET_INST_INFO"
)

func (c StatementClass) String() string {
	switch c {
	case ClassSelect:
		return "SELECT"
	case ClassInsert:
		return "INSERT"
	case ClassUpdate:
		return "UPDATE"
	case ClassDelete:
		return "DELETE"
	case ClassUpsert:
		return "UPSERT"
	case ClassBulkUpdate:
		return "BULKUPDATE"
	case ClassBulkDelete:
		return "BULKDELETE"
	case ClassShowTables:
		return "SHOWTABLES"
	case ClassShowIndexes:
		return "SHOWINDEXES"
	case ClassShowConstraints:
		return "SHOWCONSTRAINTS"
	case ClassDescribe:
		return "DESCRIBE"
	case ClassForeignKeys:
		return "FOREIGNKEYS"
	case ClassVersion:
		return "VERSION"
	case ClassDropSchema:
		return "DROPSCHEMA"
	case ClassCall:
		return "CALL"
	case ClassBegin:
		return "BEGIN"
	case ClassCommit:
		return "COMMIT"
	case ClassRollback:
		return "ROLLBACK"
	case ClassSavepoint:
		return "SAVEPOINT"
	default:
		return "RAW"
	}
}

// IsTransactionControl reports whether the class delegates to the
// connection's transaction primitives instead of the prepared path.
func (c StatementClass) IsTransactionControl() bool {
	switch c {
	case ClassBegin, ClassCommit, ClassRollback, ClassSavepoint:
		return true
	}
	return false
}

// Classify derives the statement class from finalized SQL text and ambient
// options. Pure function, deterministic, no side effects. Insert is checked
// before the generic update match; FINAL TABLE wrappers are checked before
// the generic SELECT match.
func Classify(sql string, opts *Options) StatementClass {
	if opts == nil {
		opts = &Options{}
	}
	s := strings.TrimSpace(sql)

	switch {
	case strings.HasPrefix(s, savepointPrefix):
		return ClassSavepoint
	case strings.HasPrefix(s, beginPrefix):
		return ClassBegin
	case strings.HasPrefix(s, commitPrefix):
		return ClassCommit
	case strings.HasPrefix(s, rollbackPrefix):
		return ClassRollback
	case strings.HasPrefix(s, dropSchemaPrefix):
		return ClassDropSchema
	case strings.HasPrefix(s, "CALL "):
		return ClassCall
	case strings.HasPrefix(s, showTablesPrefix):
		return ClassShowTables
	case strings.HasPrefix(s, describePrefix):
		return ClassDescribe
	case strings.HasPrefix(s, showIndexesPrefix):
		return ClassShowIndexes
	case strings.HasPrefix(s, showConstraintsPrefix):
		return ClassShowConstraints
	case strings.HasPrefix(s, foreignKeysPrefix):
		return ClassForeignKeys
	case strings.Contains(s, versionMarker):
		return ClassVersion
	case strings.HasPrefix(s, finalTableInsertPrefix), strings.HasPrefix(s, "INSERT INTO"):
		return ClassInsert
	case strings.HasPrefix(s, finalTableUpdatePrefix), strings.HasPrefix(s, "UPDATE "):
		if opts.BulkUpdate {
			return ClassBulkUpdate
		}
		return ClassUpdate
	case strings.HasPrefix(s, "MERGE INTO"):
		return ClassUpsert
	case strings.HasPrefix(s, deletePrefix):
		if opts.BulkDelete {
			return ClassBulkDelete
		}
		return ClassDelete
	case opts.Raw:
		return ClassRaw
	case strings.HasPrefix(s, "SELECT"):
		return ClassSelect
	}
	return ClassRaw
}
