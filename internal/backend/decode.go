package backend

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/infitab/infitab/internal/model1"
)

// DecodePage maps a paginated envelope onto a page.
//
//	{"first":1,"prev":null,"next":2,"last":3,"pages":3,"items":45,"data":[...]}
//
// A null or absent next marks the last page. Every record needs an id.
func DecodePage(raw []byte, number int) (model1.Page, error) {
	if !gjson.ValidBytes(raw) {
		return model1.Page{}, fmt.Errorf("%w: invalid json", ErrBadEnvelope)
	}
	env := gjson.ParseBytes(raw)
	if !env.IsObject() {
		return model1.Page{}, fmt.Errorf("%w: expected an object", ErrBadEnvelope)
	}

	data := env.Get("data")
	if data.Exists() && data.Type != gjson.Null && !data.IsArray() {
		return model1.Page{}, fmt.Errorf("%w: data is not an array", ErrBadEnvelope)
	}

	var (
		rows model1.Rows
		err  error
	)
	if !data.IsArray() {
		data = gjson.Result{}
	}
	data.ForEach(func(_, rec gjson.Result) bool {
		var row model1.Row
		row, err = decodeRow(rec)
		if err != nil {
			err = fmt.Errorf("record %d: %w", len(rows), err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if err != nil {
		return model1.Page{}, err
	}

	next := env.Get("next")
	total := int(env.Get("items").Int())
	if !env.Get("items").Exists() {
		total = len(rows)
	}

	return model1.Page{
		Rows:    rows,
		Number:  number,
		Total:   total,
		HasNext: next.Exists() && next.Type != gjson.Null,
	}, nil
}

func decodeRow(rec gjson.Result) (model1.Row, error) {
	if !rec.IsObject() {
		return model1.Row{}, fmt.Errorf("%w: record is not an object", ErrBadEnvelope)
	}
	id := rec.Get(model1.IDKey)
	if !id.Exists() || id.Type == gjson.Null {
		return model1.Row{}, ErrMissingID
	}
	idText := scalarText(id)
	if idText == "" {
		return model1.Row{}, ErrMissingID
	}

	row := model1.NewRow(idText, 8)
	rec.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.Null {
			return true
		}
		row.Values[k.String()] = scalarText(v)
		return true
	})

	return row, nil
}

// scalarText keeps strings verbatim and numbers in their wire form.
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return model1.Blank
	default:
		return v.Raw
	}
}
