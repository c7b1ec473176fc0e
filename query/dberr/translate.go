package dberr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/satishbabariya/db2-go/driver"
	"github.com/satishbabariya/db2-go/model"
)

// Request is the context a translation runs with: the failing statement,
// its bind parameters, and the model metadata used for field attribution.
// Everything is optional; missing pieces only reduce attribution quality.
type Request struct {
	Model      *model.Model
	Instance   *model.Instance
	Fields     []string // insert column list, positional
	Where      map[string]interface{}
	SQL        string
	Parameters []interface{}
}

// Vendor message patterns. The matching is purely textual; no typed driver
// errors are assumed beyond a message string.
var (
	uniqueViolationRe = regexp.MustCompile(
		`SQL0803N\s+.*identified by "(\d+)" constrains table "([^"]+)" from having duplicate values`)
	fkRestrictRe = regexp.MustCompile(
		`SQL0532N\s+A parent row cannot be deleted because the relationship "([^"]+)" restricts the deletion`)
	fkNoParentRe = regexp.MustCompile(
		`SQL0530N\s+The insert or update value of the FOREIGN KEY "([^"]+)"`)
	undefinedNameRe = regexp.MustCompile(
		`SQL0204N\s+"([^"]+)" is an undefined name`)
	sqlTableRe = regexp.MustCompile(`(?i)(?:TABLE|INTO|UPDATE|FROM)\s+"?([A-Za-z0-9_."]+)"?`)
)

// Translate maps a raw driver error to a semantic error. The unique
// violation path resolves the real index name through a catalog query on
// the connection already in hand; that secondary query runs synchronously
// inside what looks like error handling of the first statement.
func Translate(ctx context.Context, err error, conn driver.Connection, req *Request) error {
	if err == nil {
		return nil
	}
	if req == nil {
		req = &Request{}
	}
	msg := err.Error()

	if m := uniqueViolationRe.FindStringSubmatch(msg); m != nil {
		return translateUnique(ctx, err, conn, req, m[1], m[2])
	}

	if m := fkRestrictRe.FindStringSubmatch(msg); m != nil {
		return &ForeignKeyConstraintError{
			Message: fmt.Sprintf("foreign key constraint %s violated", m[1]),
			Index:   m[1],
			cause:   err,
		}
	}
	if m := fkNoParentRe.FindStringSubmatch(msg); m != nil {
		return &ForeignKeyConstraintError{
			Message: fmt.Sprintf("foreign key constraint %s violated", m[1]),
			Index:   m[1],
			cause:   err,
		}
	}

	if m := undefinedNameRe.FindStringSubmatch(msg); m != nil {
		table := ""
		if t := sqlTableRe.FindStringSubmatch(req.SQL); t != nil {
			table = strings.ReplaceAll(t[1], `"`, "")
		}
		return &UnknownConstraintError{
			Message:    fmt.Sprintf("undefined name %s", m[1]),
			Constraint: m[1],
			Table:      table,
			cause:      err,
		}
	}

	return &DatabaseError{SQL: req.SQL, Parameters: req.Parameters, cause: err}
}

func translateUnique(ctx context.Context, cause error, conn driver.Connection, req *Request, indexID, qualifiedTable string) error {
	fields := resolveUniqueFields(ctx, conn, req, indexID, qualifiedTable)

	var message string
	if req.Model != nil {
		if uk := matchedUniqueKey(req.Model, fields); uk != nil && uk.Message != "" {
			message = uk.Message
		}
	}

	out := &UniqueConstraintError{
		Message: message,
		Fields:  map[string]interface{}{},
		cause:   cause,
	}
	for _, field := range fields {
		value := attributeValue(req, field)
		out.Fields[field] = value
		itemMessage := message
		if itemMessage == "" {
			itemMessage = field + " must be unique"
		}
		out.Errors = append(out.Errors, ValidationItem{
			Message: itemMessage,
			Type:    "unique violation",
			Path:    field,
			Value:   value,
		})
	}
	if out.Message == "" {
		out.Message = "validation error"
	}
	return out
}

// resolveUniqueFields turns the vendor's numeric index id into attribute
// names: the real index name is looked up in SYSCAT.INDEXES on the live
// connection, then resolved against the model's declared unique keys, with
// a positional fallback into the insert field list.
func resolveUniqueFields(ctx context.Context, conn driver.Connection, req *Request, indexID, qualifiedTable string) []string {
	indexName := lookupIndexName(ctx, conn, indexID, qualifiedTable)

	if req.Model != nil && indexName != "" {
		if uk := req.Model.UniqueKeyByName(indexName); uk != nil {
			return uk.Fields
		}
	}

	// Positional fallback: the vendor index id counts from 1.
	var n int
	if _, err := fmt.Sscanf(indexID, "%d", &n); err == nil && n >= 1 && n <= len(req.Fields) {
		return []string{req.Fields[n-1]}
	}
	if indexName != "" {
		return []string{indexName}
	}
	return nil
}

func lookupIndexName(ctx context.Context, conn driver.Connection, indexID, qualifiedTable string) string {
	if conn == nil {
		return ""
	}
	schema, table := splitQualified(qualifiedTable)
	sql := fmt.Sprintf(
		"SELECT INDNAME FROM SYSCAT.INDEXES WHERE IID = %s AND TABSCHEMA = '%s' AND TABNAME = '%s'",
		indexID, schema, table)
	rows, err := conn.Query(ctx, sql)
	if err != nil || len(rows) == 0 {
		return ""
	}
	if name, ok := rows[0]["INDNAME"].(string); ok {
		return strings.TrimSpace(name)
	}
	return ""
}

// matchedUniqueKey finds a declared unique key covering exactly the
// resolved fields.
func matchedUniqueKey(m *model.Model, fields []string) *model.UniqueKey {
	for i := range m.UniqueKeys {
		uk := &m.UniqueKeys[i]
		if len(uk.Fields) != len(fields) {
			continue
		}
		matched := true
		for j, f := range uk.Fields {
			if f != fields[j] {
				matched = false
				break
			}
		}
		if matched {
			return uk
		}
	}
	return nil
}

// attributeValue picks the offending value: the where-clause value, else
// the bound instance's current value, else the first positional parameter.
func attributeValue(req *Request, field string) interface{} {
	if v, ok := req.Where[field]; ok && v != nil {
		return v
	}
	if req.Instance != nil {
		if v := req.Instance.Get(field); v != nil {
			return v
		}
	}
	if len(req.Parameters) > 0 {
		return req.Parameters[0]
	}
	return nil
}

func splitQualified(name string) (schema, table string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
