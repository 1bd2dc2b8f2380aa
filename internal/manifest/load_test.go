package manifest

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

const yamlManifest = `
name: probe-suite
vars:
  host: example.com
pipeline:
  groups:
    - name: probe
      jobs:
        - name: ping
          request: "https://{{host}}/ping"
          method: GET
          capture:
            - json: "$.n"
              variable: count
          assert:
            - message: "n is 1"
              equal:
                a: { path: count }
                b: { literal: 1 }
          repeats: 1
`

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, []byte(yamlManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "probe-suite" {
		t.Errorf("Name = %q", m.Name)
	}
	if len(m.Groups) != 1 || m.Groups[0].Name != "probe" {
		t.Fatalf("Groups = %+v", m.Groups)
	}
	entry := m.Groups[0].Entries[0]
	if entry.Job.RequestTemplate != "https://{{host}}/ping" {
		t.Errorf("RequestTemplate = %q", entry.Job.RequestTemplate)
	}
	if len(entry.Captures) != 1 || entry.Captures[0].Variable != "count" {
		t.Fatalf("Captures = %+v", entry.Captures)
	}
	if len(entry.Assertions) != 1 {
		t.Fatalf("Assertions = %+v", entry.Assertions)
	}
	if entry.Repeats != 1 {
		t.Errorf("Repeats = %d, want 1", entry.Repeats)
	}
}

const jsonManifest = `{
  "name": "json-suite",
  "vars": {"host": "example.com"},
  "pipeline": {
    "groups": [
      {"name": "probe", "jobs": [
        {"name": "ping", "request": "https://{{host}}/ping", "method": "GET", "repeats": 2}
      ]}
    ]
  }
}`

func TestLoadJSONKeepsExplicitRepeats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(jsonManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Groups[0].Entries[0].Repeats != 2 {
		t.Errorf("Repeats = %d, want 2", m.Groups[0].Entries[0].Repeats)
	}
}

func TestLoadJSONRepeatsDefaultsToOneWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	body := `{"name":"s","pipeline":{"groups":[{"name":"g","jobs":[{"name":"j","request":"https://x","method":"GET"}]}]}}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// spec §3: repeats >= 1, default 1.
	if m.Groups[0].Entries[0].Repeats != 1 {
		t.Errorf("Repeats = %d, want default 1", m.Groups[0].Entries[0].Repeats)
	}
}

const tomlManifest = `
name = "toml-suite"

[pipeline]
[[pipeline.groups]]
name = "probe"
[[pipeline.groups.jobs]]
name = "ping"
request = "https://x/ping"
method = "GET"
`

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")
	if err := os.WriteFile(path, []byte(tomlManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "toml-suite" {
		t.Errorf("Name = %q", m.Name)
	}
	if len(m.Groups) != 1 || len(m.Groups[0].Entries) != 1 {
		t.Fatalf("Groups = %+v", m.Groups)
	}
}

const hjsonManifest = `
{
  // HJSON allows comments
  name: hjson-suite
  pipeline: {
    groups: [
      {
        name: probe
        jobs: [
          { name: ping, request: "https://x/ping", method: GET }
        ]
      }
    ]
  }
}
`

func TestLoadHJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.hjson")
	if err := os.WriteFile(path, []byte(hjsonManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "hjson-suite" {
		t.Errorf("Name = %q", m.Name)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.xml")
	if err := os.WriteFile(path, []byte("<xml/>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unsupported extension should fail to load")
	}
}

func TestLoadSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte("{not valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed JSON should fail to load")
	}
}

func TestResolveBodyVariants(t *testing.T) {
	dir := t.TempDir()
	uriFile := filepath.Join(dir, "payload.txt")
	if err := os.WriteFile(uriFile, []byte("from-file"), 0644); err != nil {
		t.Fatal(err)
	}

	raw := "raw-body"
	b64 := base64.StdEncoding.EncodeToString([]byte("decoded"))

	cases := []struct {
		name string
		body *RawBody
		want string
	}{
		{"raw", &RawBody{Raw: &raw}, "raw-body"},
		{"json", &RawBody{JSON: map[string]interface{}{"a": float64(1)}}, `{"a":1}`},
		{"uri", &RawBody{URI: strPtr("file://payload.txt")}, "from-file"},
		{"base64", &RawBody{Base64: &b64}, "decoded"},
	}
	for _, c := range cases {
		got, err := resolveBody(c.body, dir)
		if err != nil {
			t.Fatalf("%s: resolveBody: %v", c.name, err)
		}
		if string(got) != c.want {
			t.Errorf("%s: resolveBody = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestResolveBodyURIPathTraversalIsRejected(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "manifests")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("top secret"), 0644); err != nil {
		t.Fatal(err)
	}

	body := &RawBody{URI: strPtr("file://../secret.txt")}
	if _, err := resolveBody(body, sub); err == nil {
		t.Error("body uri escaping the manifest directory should be rejected")
	}
}

func TestResolveResourcePath(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "users.csv")
	if err := os.WriteFile(csv, []byte("id,name\n1,a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	resolved, err := resolveResourcePath("file://users.csv", dir)
	if err != nil {
		t.Fatalf("resolveResourcePath: %v", err)
	}
	if resolved != csv {
		t.Errorf("resolved = %q, want %q", resolved, csv)
	}
}

func strPtr(s string) *string { return &s }

func TestLoadDetectsPostmanCollectionByContent(t *testing.T) {
	// cannon's single positional "file" argument (§6) loads either a plain
	// manifest or a Postman collection export from the same ".json"
	// extension, distinguished by content-sniffing rather than a flag.
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(postmanCollection), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "example-api" {
		t.Errorf("Name = %q, want example-api (from the Postman collection's info.name)", m.Name)
	}
	if len(m.Groups) == 0 {
		t.Fatal("expected at least one group from the Postman collection's folders")
	}
}
