package routes

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// sriCache holds computed integrity strings keyed by asset URL path.
var sriCache sync.Map // map[string]string

// assetSRI computes the sha384 subresource integrity for an asset served
// from /assets/ (backed by web/assets/ on disk). Other paths get no
// integrity attribute.
func assetSRI(src string) (string, error) {
	if !strings.HasPrefix(src, "/assets/") {
		return "", nil
	}

	fsPath := filepath.Join("web", strings.TrimPrefix(src, "/"))

	f, err := os.Open(fsPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha512.New384()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return "sha384-" + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

func integrityFor(src string) string {
	if v, ok := sriCache.Load(src); ok {
		return v.(string)
	}
	sri, err := assetSRI(src)
	if err != nil || sri == "" {
		return ""
	}
	sriCache.Store(src, sri)
	return sri
}

// ScriptTag renders a script tag for templates, with an SRI integrity
// attribute for local assets.
func ScriptTag(src string) template.HTML {
	attrs := ""
	if integrity := integrityFor(src); integrity != "" {
		attrs = fmt.Sprintf(" integrity=%q crossorigin=\"anonymous\"", integrity)
	}

	return template.HTML(fmt.Sprintf("<script src=%q%s></script>", html.EscapeString(src), attrs))
}

// StyleTag renders a stylesheet link the same way.
func StyleTag(href string) template.HTML {
	attrs := ""
	if integrity := integrityFor(href); integrity != "" {
		attrs = fmt.Sprintf(" integrity=%q crossorigin=\"anonymous\"", integrity)
	}

	return template.HTML(fmt.Sprintf("<link rel=\"stylesheet\" href=%q%s>", html.EscapeString(href), attrs))
}

// TemplateFuncs exposes the template helpers used by the page templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"script_tag": ScriptTag,
		"style_tag":  StyleTag,
	}
}
