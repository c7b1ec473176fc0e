// Package model describes the ORM metadata the dialect layer consumes:
// attribute definitions, unique key declarations, indexes, and the bound
// instance a write operation targets. The dialect layer never mutates model
// definitions; it only reads them and writes a computed id back onto an
// instance after insert.
package model

// Attribute is a single model attribute and its column mapping.
type Attribute struct {
	Name          string // attribute name on the model
	Field         string // underlying column name; empty means same as Name
	Type          string // SQL type fragment, e.g. "VARCHAR(255) NOT NULL"
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Comment       string
}

// ColumnName returns the database column the attribute maps to.
func (a *Attribute) ColumnName() string {
	if a.Field != "" {
		return a.Field
	}
	return a.Name
}

// UniqueKey is a declared composite unique constraint with an optional
// custom violation message.
type UniqueKey struct {
	Name    string
	Fields  []string
	Message string
}

// Index is a declared index definition.
type Index struct {
	Name   string
	Fields []string
	Unique bool
}

// Model is the metadata for one mapped table.
type Model struct {
	Name       string
	TableName  string
	Schema     string
	Attributes []Attribute
	UniqueKeys []UniqueKey
	Indexes    []Index
}

// Attribute looks up an attribute by its model name or column name.
func (m *Model) Attribute(name string) *Attribute {
	for i := range m.Attributes {
		if m.Attributes[i].Name == name || m.Attributes[i].Field == name {
			return &m.Attributes[i]
		}
	}
	return nil
}

// PrimaryKeyAttributes returns all primary key attributes in declaration order.
func (m *Model) PrimaryKeyAttributes() []Attribute {
	var pks []Attribute
	for _, a := range m.Attributes {
		if a.PrimaryKey {
			pks = append(pks, a)
		}
	}
	return pks
}

// AutoIncrementAttribute returns the identity attribute, or nil.
func (m *Model) AutoIncrementAttribute() *Attribute {
	for i := range m.Attributes {
		if m.Attributes[i].AutoIncrement {
			return &m.Attributes[i]
		}
	}
	return nil
}

// UniqueAttributeNames returns the declared unique attributes plus any
// attribute participating in a unique index or unique key, in declaration
// order without duplicates.
func (m *Model) UniqueAttributeNames() []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, a := range m.Attributes {
		if a.Unique {
			add(a.Name)
		}
	}
	for _, uk := range m.UniqueKeys {
		for _, f := range uk.Fields {
			add(f)
		}
	}
	for _, idx := range m.Indexes {
		if !idx.Unique {
			continue
		}
		for _, f := range idx.Fields {
			add(f)
		}
	}
	return names
}

// UniqueKeyByName looks up a declared unique key by constraint name.
func (m *Model) UniqueKeyByName(name string) *UniqueKey {
	for i := range m.UniqueKeys {
		if m.UniqueKeys[i].Name == name {
			return &m.UniqueKeys[i]
		}
	}
	return nil
}

// Instance is the attribute value bag bound to a write operation. The
// executor writes the computed insert id onto it; nothing else in the
// dialect layer mutates it.
type Instance struct {
	values map[string]interface{}
}

// NewInstance creates an instance over the given attribute values. A nil
// map is allowed.
func NewInstance(values map[string]interface{}) *Instance {
	if values == nil {
		values = map[string]interface{}{}
	}
	return &Instance{values: values}
}

// Get returns the current value of an attribute, or nil.
func (i *Instance) Get(name string) interface{} {
	return i.values[name]
}

// Set stores an attribute value.
func (i *Instance) Set(name string, value interface{}) {
	i.values[name] = value
}

// Values returns the underlying value map.
func (i *Instance) Values() map[string]interface{} {
	return i.values
}
