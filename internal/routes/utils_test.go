package routes

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScriptTagExternalNoIntegrity(t *testing.T) {
	out := ScriptTag("https://cdn.example.com/lib.js")
	if strings.Contains(string(out), "integrity=") {
		t.Fatalf("external script should not have integrity: %q", out)
	}
}

func writeTestAsset(t *testing.T, name string, content []byte) string {
	t.Helper()

	dir := filepath.Join("web", "assets")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdirall: %v", err)
	}
	fpath := filepath.Join(dir, name)
	if err := os.WriteFile(fpath, content, 0644); err != nil {
		t.Fatalf("writefile: %v", err)
	}
	t.Cleanup(func() { os.Remove(fpath) })

	return "/assets/" + name
}

func sha384Of(content []byte) string {
	h := sha512.New384()
	h.Write(content)
	return "sha384-" + base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func TestScriptTagLocalComputesIntegrity(t *testing.T) {
	content := []byte("console.log('sri-test');\n")
	src := writeTestAsset(t, "test-sri.js", content)

	out := ScriptTag(src)
	want := fmt.Sprintf(`<script src="%s" integrity="%s" crossorigin="anonymous"></script>`, src, sha384Of(content))
	if string(out) != want {
		t.Fatalf("unexpected output, got: %q, want: %q", out, want)
	}
}

func TestStyleTagLocalComputesIntegrity(t *testing.T) {
	content := []byte("body { margin: 0 }\n")
	href := writeTestAsset(t, "test-sri.css", content)

	out := StyleTag(href)
	want := fmt.Sprintf(`<link rel="stylesheet" href="%s" integrity="%s" crossorigin="anonymous">`, href, sha384Of(content))
	if string(out) != want {
		t.Fatalf("unexpected output, got: %q, want: %q", out, want)
	}
}

func TestScriptTagEscapesAttributes(t *testing.T) {
	out := ScriptTag(`/" onerror="alert(1)`)
	if strings.Contains(string(out), `onerror="`) {
		t.Fatalf("attribute injection detected in output: %q", out)
	}
}
