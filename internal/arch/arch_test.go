// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

// appLayers may only be imported by cmd/ and each other.
var appLayers = []string{
	"cleavr/internal/appcore", "cleavr/internal/app",
	"cleavr/internal/appshell", "cleavr/internal/cli", "cleavr/internal/config",
	"cleavr/cmd/",
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		// domain code never reaches into the application
		"cleavr/core/":             {"cleavr/internal/"},
		"cleavr/pkg/":              {"cleavr/internal/", "cleavr/core/"},
		"cleavr/internal/pipeline": append([]string{"cleavr/internal/writers", "cleavr/internal/output"}, appLayers...),
		"cleavr/internal/writers":  append([]string{"cleavr/internal/pipeline"}, appLayers...),
		"cleavr/internal/output":   append([]string{"cleavr/internal/pipeline"}, appLayers...),
		"cleavr/internal/pretty":   append([]string{"cleavr/internal/pipeline"}, appLayers...),
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "cleavr/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "cleavr/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
