package cache

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tordrt/askdb/internal/ddl"
)

func newTestCache(t *testing.T) *ParseCache {
	t.Helper()

	c, err := New(16, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestParseCacheHit(t *testing.T) {
	c := newTestCache(t)
	text := "CREATE TABLE users (id INT PRIMARY KEY, name TEXT);"

	first, err := c.Parse(text, ddl.Lenient)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	second, err := c.Parse(text, ddl.Lenient)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	if first != second {
		t.Error("Expected the second parse to return the cached result")
	}
	if len(first.Schema.Tables) != 1 || first.Schema.Tables[0].Name != "users" {
		t.Errorf("Unexpected schema: %+v", first.Schema)
	}
}

func TestParseCacheSeparatesModes(t *testing.T) {
	c := newTestCache(t)
	text := "CREATE TABLE a (id INT); CREATE TABLE b;"

	lenient, err := c.Parse(text, ddl.Lenient)
	if err != nil {
		t.Fatalf("Lenient parse unexpected error: %v", err)
	}
	if len(lenient.Diagnostics) == 0 {
		t.Error("Expected lenient diagnostics for the table without columns")
	}

	_, err = c.Parse(text, ddl.Strict)
	var strictErr *ddl.StrictError
	if !errors.As(err, &strictErr) {
		t.Fatalf("Expected *ddl.StrictError, got %v", err)
	}

	// the strict failure must not poison the lenient entry
	again, err := c.Parse(text, ddl.Lenient)
	if err != nil {
		t.Fatalf("Lenient parse unexpected error: %v", err)
	}
	if again != lenient {
		t.Error("Expected lenient result to stay cached")
	}
}

func TestParseCacheDoesNotCacheErrors(t *testing.T) {
	c := newTestCache(t)

	for i := 0; i < 2; i++ {
		_, err := c.Parse("CREATE TABLE t (name TEXT DEFAULT 'oops);", ddl.Lenient)
		if !errors.Is(err, ddl.ErrUnparseable) {
			t.Fatalf("attempt %d: expected ErrUnparseable, got %v", i, err)
		}
	}
}

func TestParseCacheDistinctTexts(t *testing.T) {
	c := newTestCache(t)

	a, err := c.Parse("CREATE TABLE a (id INT);", ddl.Lenient)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	b, err := c.Parse("CREATE TABLE b (id INT);", ddl.Lenient)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	if a.Schema.Tables[0].Name != "a" || b.Schema.Tables[0].Name != "b" {
		t.Errorf("Expected tables a and b, got %s and %s", a.Schema.Tables[0].Name, b.Schema.Tables[0].Name)
	}
}
