package sqlgen

import "testing"

func TestCreateTableRelocatesCommentsAndReferences(t *testing.T) {
	g := NewGenerator()
	q := g.CreateTable("Books", "", []ColumnDefinition{
		{Name: "id", Type: "INTEGER NOT NULL PRIMARY KEY"},
		{Name: "author_id", Type: `INTEGER NOT NULL REFERENCES "Authors" ("id")`},
		{Name: "title", Type: "VARCHAR(255) COMMENT 'Book title'"},
	})

	want := `CREATE TABLE "Books" ("id" INTEGER NOT NULL PRIMARY KEY, "author_id" INTEGER NOT NULL, "title" VARCHAR(255), FOREIGN KEY ("author_id") REFERENCES "Authors" ("id")); COMMENT ON COLUMN "Books"."title" IS 'Book title'`
	if q.SQL != want {
		t.Errorf("got %q, want %q", q.SQL, want)
	}
}

func TestCreateTableEscapesCommentQuotes(t *testing.T) {
	g := NewGenerator()
	q := g.CreateTable("T", "", []ColumnDefinition{
		{Name: "c", Type: "VARCHAR(10) COMMENT 'it''s'"},
	})

	want := `CREATE TABLE "T" ("c" VARCHAR(10)); COMMENT ON COLUMN "T"."c" IS 'it''s'`
	if q.SQL != want {
		t.Errorf("got %q, want %q", q.SQL, want)
	}
}

func TestCreateTableWithSchema(t *testing.T) {
	g := NewGenerator()
	q := g.CreateTable("T", "APP", []ColumnDefinition{{Name: "c", Type: "INTEGER"}})

	want := `CREATE TABLE "APP"."T" ("c" INTEGER)`
	if q.SQL != want {
		t.Errorf("got %q, want %q", q.SQL, want)
	}
}

func TestChangeColumn(t *testing.T) {
	g := NewGenerator()
	q := g.ChangeColumn("Books", "", []ColumnDefinition{
		{Name: "title", Type: "VARCHAR(500) NOT NULL"},
		{Name: "subtitle", Type: "DROP NOT NULL"},
		{Name: "author_id", Type: `INTEGER REFERENCES "Authors" ("id")`},
	})

	want := `ALTER TABLE "Books" ALTER COLUMN "title" SET VARCHAR(500) NOT NULL ALTER COLUMN "subtitle" DROP NOT NULL ADD CONSTRAINT "Books_author_id_fk" FOREIGN KEY ("author_id") REFERENCES "Authors" ("id")`
	if q.SQL != want {
		t.Errorf("got %q, want %q", q.SQL, want)
	}
}
