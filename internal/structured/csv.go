package structured

import (
	"fmt"
	"strings"

	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/models"
)

// CSVParse splits text into rows keyed by the header line. Cells and header
// names are trimmed, blank lines are skipped, short rows are padded with
// empty strings and fields beyond the header are dropped.
func CSVParse(text string) []*models.Object {
	lines := strings.Split(text, "\n")
	headers := splitTrimmed(lines[0])

	rows := make([]*models.Object, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitTrimmed(line)
		row := models.NewObject()
		for i, header := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			row.Set(header, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func splitTrimmed(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// RowsValue converts parsed rows into an array value for JSON output.
func RowsValue(rows []*models.Object) models.Array {
	out := make(models.Array, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// CSVStringify renders a non-empty array of objects as CSV. The header is the
// union of all keys in first-seen order; absent keys render as empty cells.
func CSVStringify(value models.Value) (string, error) {
	arr, ok := value.(models.Array)
	if !ok || len(arr) == 0 {
		return "", errors.NewInvalidInputError("argument must be a non-empty array", errors.ErrNotArray)
	}

	rows := make([]*models.Object, len(arr))
	seen := make(map[string]bool)
	var headers []string
	for i, item := range arr {
		obj, isObj := item.(*models.Object)
		if !isObj {
			return "", errors.NewInvalidInputError(
				fmt.Sprintf("element %d is a %s, expected an object", i, models.Kind(item)),
				errors.ErrNotMapping,
			)
		}
		rows[i] = obj
		for _, k := range obj.Keys() {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(headers, ","))
	sb.WriteByte('\n')
	cells := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			v, _ := row.Get(h)
			cells[i] = models.Text(v)
		}
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
