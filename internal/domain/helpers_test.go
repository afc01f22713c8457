package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPreambleFmt = "<br>Ukraine, Province= %2d: Test 1981-2024, Mean VHI<br>\n"

const testHeader = "year,week, SMN,SMT,VCI,TCI,VHI<br>\n"

// exportBody renders a provider export with the first-row prefix and footer.
func exportBody(provinceID int, rows ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, testPreambleFmt, provinceID)
	b.WriteString(testHeader)
	for i, r := range rows {
		if i == 0 {
			b.WriteString("<tt><pre>")
		}
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("</pre></tt>\n")
	return b.String()
}

func writeExport(t *testing.T, dir string, provinceID int, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("vhi_id_%d_16102026120000.csv", provinceID))
	if err := os.WriteFile(path, []byte(exportBody(provinceID, rows...)), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}
