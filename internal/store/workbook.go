package store

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WorkbookSink collects every collection into one .xlsx file, one sheet per collection,
// with nested fields flattened into dotted column names. The file is saved on Close.
type WorkbookSink struct {
	path string

	mu   sync.Mutex
	file *xlsx.File
}

// NewWorkbook creates an empty workbook that will be saved at path.
func NewWorkbook(path string) *WorkbookSink {
	return &WorkbookSink{path: path, file: xlsx.NewFile()}
}

// Write adds a sheet named after the collection. Writing a name twice is an error.
func (s *WorkbookSink) Write(ctx context.Context, name string, records any) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "xlsx: write %s", name)
	}

	docs, err := flatten(records)
	if err != nil {
		return eris.Wrapf(err, "xlsx: flatten %s", name)
	}
	columns := columnsOf(docs)

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", name)
	}

	header := sheet.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}
	for _, doc := range docs {
		r := sheet.AddRow()
		for _, c := range columns {
			cell := r.AddCell()
			switch v := doc[c].(type) {
			case nil:
			case json.Number:
				if f, err := v.Float64(); err == nil {
					cell.SetFloat(f)
				} else {
					cell.SetString(v.String())
				}
			case string:
				cell.SetString(v)
			default:
				b, _ := json.Marshal(v)
				cell.SetString(string(b))
			}
		}
	}
	return nil
}

// Close saves the workbook.
func (s *WorkbookSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// xlsx refuses to save a workbook without sheets.
	if len(s.file.Sheets) == 0 {
		return nil
	}
	if err := s.file.Save(s.path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", s.path)
	}
	return nil
}

// flatten turns records into one flat document per row. Objects nest into dotted keys;
// arrays are kept as compact JSON in a single cell.
func flatten(records any) ([]map[string]any, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		doc := map[string]any{}
		flattenInto(doc, "", item)
		out = append(out, doc)
	}
	return out, nil
}

func flattenInto(doc map[string]any, prefix string, v any) {
	obj, ok := v.(map[string]any)
	if !ok {
		if prefix == "" {
			prefix = "value"
		}
		if arr, isArr := v.([]any); isArr {
			b, _ := json.Marshal(arr)
			v = string(b)
		}
		doc[prefix] = v
		return
	}
	for k, child := range obj {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flattenInto(doc, key, child)
	}
}

// columnsOf returns the union of keys, sorted, with id first when present.
func columnsOf(docs []map[string]any) []string {
	seen := map[string]bool{}
	var cols []string
	for _, d := range docs {
		for k := range d {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	slices.Sort(cols)
	if i := slices.Index(cols, "id"); i > 0 {
		cols = slices.Delete(cols, i, i+1)
		cols = slices.Insert(cols, 0, "id")
	}
	return cols
}
