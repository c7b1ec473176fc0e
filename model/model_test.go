package model

import (
	"reflect"
	"testing"
)

func sampleModel() *Model {
	return &Model{
		Name:      "User",
		TableName: "Users",
		Attributes: []Attribute{
			{Name: "id", PrimaryKey: true, AutoIncrement: true},
			{Name: "email", Unique: true},
			{Name: "displayName", Field: "display_name"},
		},
		UniqueKeys: []UniqueKey{
			{Name: "uk_first_last", Fields: []string{"first", "last"}},
		},
		Indexes: []Index{
			{Name: "idx_handle", Fields: []string{"handle"}, Unique: true},
			{Name: "idx_created", Fields: []string{"created"}},
		},
	}
}

func TestAttributeLookupByNameOrColumn(t *testing.T) {
	m := sampleModel()

	if a := m.Attribute("displayName"); a == nil || a.ColumnName() != "display_name" {
		t.Errorf("lookup by name: %+v", a)
	}
	if a := m.Attribute("display_name"); a == nil || a.Name != "displayName" {
		t.Errorf("lookup by column: %+v", a)
	}
	if a := m.Attribute("missing"); a != nil {
		t.Errorf("expected nil, got %+v", a)
	}
}

func TestColumnNameDefaultsToAttributeName(t *testing.T) {
	a := Attribute{Name: "email"}
	if a.ColumnName() != "email" {
		t.Errorf("got %q", a.ColumnName())
	}
}

func TestUniqueAttributeNames(t *testing.T) {
	got := sampleModel().UniqueAttributeNames()
	// Declared unique attributes first, then unique key fields, then
	// unique index fields; non-unique indexes excluded.
	want := []string{"email", "first", "last", "handle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAutoIncrementAttribute(t *testing.T) {
	m := sampleModel()
	if ai := m.AutoIncrementAttribute(); ai == nil || ai.Name != "id" {
		t.Errorf("got %+v", ai)
	}

	none := &Model{Attributes: []Attribute{{Name: "a"}}}
	if ai := none.AutoIncrementAttribute(); ai != nil {
		t.Errorf("expected nil, got %+v", ai)
	}
}

func TestInstanceSetGet(t *testing.T) {
	i := NewInstance(map[string]interface{}{"name": "alice"})
	i.Set("id", int64(1))

	if i.Get("id") != int64(1) || i.Get("name") != "alice" {
		t.Errorf("values = %v", i.Values())
	}
	if i.Get("missing") != nil {
		t.Error("missing attribute must be nil")
	}

	empty := NewInstance(nil)
	empty.Set("id", 2)
	if empty.Get("id") != 2 {
		t.Error("nil map must be usable")
	}
}
