package form

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Decode copies submitted values into dst, a pointer to a form struct.
// Strings are trimmed. A bool is true for "true", "on" or "yes". Rows are
// rebuilt up to the highest index posted, so a gap becomes a blank row.
func Decode(values url.Values, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("form: decode target must be a pointer to a struct, got %T", dst)
	}
	return decodeStruct(values, "", v.Elem())
}

func decodeStruct(values url.Values, prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		if sf.Anonymous && sf.Tag.Get("form") == "" && fv.Kind() == reflect.Struct {
			if err := decodeStruct(values, prefix, fv); err != nil {
				return err
			}
			continue
		}
		name := tagName(sf)
		if name == "" {
			continue
		}
		key := prefix + name

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(strings.TrimSpace(values.Get(key)))
		case reflect.Bool:
			fv.SetBool(truthy(values.Get(key)))
		case reflect.Struct:
			if err := decodeStruct(values, key+".", fv); err != nil {
				return err
			}
		case reflect.Slice:
			switch fv.Type().Elem().Kind() {
			case reflect.String:
				vals := make([]string, 0, len(values[key]))
				for _, s := range values[key] {
					vals = append(vals, strings.TrimSpace(s))
				}
				fv.Set(reflect.ValueOf(vals).Convert(fv.Type()))
			case reflect.Struct:
				n := rowCount(values, key)
				rows := reflect.MakeSlice(fv.Type(), n, n)
				for r := 0; r < n; r++ {
					if err := decodeStruct(values, key+"["+strconv.Itoa(r)+"].", rows.Index(r)); err != nil {
						return err
					}
				}
				if n > 0 {
					fv.Set(rows)
				} else {
					fv.Set(reflect.Zero(fv.Type()))
				}
			default:
				return fmt.Errorf("form: unsupported slice field %s", sf.Name)
			}
		default:
			return fmt.Errorf("form: unsupported field %s of kind %s", sf.Name, fv.Kind())
		}
	}
	return nil
}

// rowCount returns one more than the highest row index posted under name.
func rowCount(values url.Values, name string) int {
	prefix := name + "["
	n := 0
	for k := range values {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			continue
		}
		idx, err := strconv.Atoi(rest[:end])
		if err != nil || idx < 0 || idx >= maxRows {
			continue
		}
		if idx+1 > n {
			n = idx + 1
		}
	}
	return n
}

// maxRows bounds how many rows a single submission can create.
const maxRows = 100

func tagName(sf reflect.StructField) string {
	tag := sf.Tag.Get("form")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return ""
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes":
		return true
	}
	return false
}
