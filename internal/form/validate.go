package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		if name := tagName(sf); name != "" {
			return name
		}
		if sf.Tag.Get("form") == "-" {
			return "-"
		}
		return ""
	})
	_ = v.RegisterValidation("yesno", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s == "YES" || s == "NO"
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]+$`)

// Checker is implemented by forms with rules that struct tags cannot express,
// such as a date built from three inputs. Field names use form tag paths
// ("dob.day", "phones[1].number").
type Checker interface {
	Check() FieldErrors
}

// Err builds a FieldError for use in Check.
func Err(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

// Validate runs the `validate` tags of a form struct and its Check method.
// It returns nil when the form is valid. Each input reports at most one
// message and the result follows the order inputs are declared in, which is
// the order they are shown on the page.
//
// Messages come from a `msg-<rule>` tag, then a `msg` tag, then a default.
func Validate(f any) (FieldErrors, error) {
	t := reflect.TypeOf(f)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("form: validate needs a struct, got %T", f)
	}

	var out FieldErrors
	seen := make(map[string]bool)
	add := func(fe FieldError) {
		if seen[fe.Field] {
			return
		}
		seen[fe.Field] = true
		out = append(out, fe)
	}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("form: %w", err)
		}
		for _, ve := range verrs {
			field := trimRoot(ve.Namespace())
			sf, order, ok := lookup(t, field)
			if !ok {
				return nil, fmt.Errorf("form: cannot place error for %q", field)
			}
			add(FieldError{Field: field, Message: message(sf, ve), order: order})
		}
	}

	if c, ok := f.(Checker); ok {
		for _, fe := range c.Check() {
			_, order, found := lookup(t, fe.Field)
			if !found {
				return nil, fmt.Errorf("form: check reported unknown field %q", fe.Field)
			}
			fe.order = order
			add(fe)
		}
	}

	if len(out) == 0 {
		return nil, nil
	}
	out.sort()
	return out, nil
}

// trimRoot drops the struct type name validator puts first.
func trimRoot(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// lookup walks a form path ("phones[1].number") through t, returning the
// leaf field and its position on the page.
func lookup(t reflect.Type, path string) (reflect.StructField, []int, bool) {
	var (
		leaf  reflect.StructField
		order []int
	)
	for _, seg := range strings.Split(path, ".") {
		name, idx, hasIdx := splitIndex(seg)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return reflect.StructField{}, nil, false
		}
		sf, pos, ok := fieldNamed(t, name)
		if !ok {
			return reflect.StructField{}, nil, false
		}
		leaf = sf
		order = append(order, pos...)
		t = sf.Type
		if hasIdx {
			if t.Kind() != reflect.Slice {
				return reflect.StructField{}, nil, false
			}
			order = append(order, idx)
			t = t.Elem()
		}
	}
	return leaf, order, true
}

// fieldNamed finds a field by form name or Go name, looking through
// untagged embedded structs.
func fieldNamed(t reflect.Type, name string) (reflect.StructField, []int, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Tag.Get("form") == "" && sf.Type.Kind() == reflect.Struct {
			if inner, pos, ok := fieldNamed(sf.Type, name); ok {
				return inner, append([]int{i}, pos...), true
			}
			continue
		}
		if tagName(sf) == name || sf.Name == name {
			return sf, []int{i}, true
		}
	}
	return reflect.StructField{}, nil, false
}

func splitIndex(seg string) (string, int, bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, 0, false
	}
	idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, 0, false
	}
	return seg[:open], idx, true
}

func message(sf reflect.StructField, fe validator.FieldError) string {
	if m := sf.Tag.Get("msg-" + fe.Tag()); m != "" {
		return m
	}
	if m := sf.Tag.Get("msg"); m != "" {
		return m
	}
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with":
		return "Enter a value"
	case "max":
		return "Must be " + fe.Param() + " characters or less"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "oneof", "yesno":
		return "Select an option"
	case "email":
		return "Enter an email address in the correct format"
	case "numeric", "number":
		return "Enter a number"
	default:
		return "Enter a valid value"
	}
}
