package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSchemaProducesSceneDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "scene.schema.json")
	if err := writeSchema(out, buildSchema()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not json: %v", err)
	}
	if doc["title"] != "Particle Scene" {
		t.Fatalf("unexpected title %v", doc["title"])
	}
	for _, want := range []string{`"collideWith"`, `"scatter"`, `"masslessForce"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected %s in schema", want)
		}
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away")
	}
}
