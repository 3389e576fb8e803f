package cf

import (
	"fmt"
	"github.com/pkg/errors"
	"reflect"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load binds the values in data onto the exported fields of the struct pointed to by cf. Keys are taken from the
// `cf` struct tag, falling back to the field name. Keys with no matching field are ignored.
//
func Load(data map[string]interface{}, cf interface{}) error {
	cfV := reflect.ValueOf(cf)
	if cfV.Kind() == reflect.Ptr {
		cfV = cfV.Elem()
	}
	if cfV.Kind() != reflect.Struct {
		return errors.Errorf("cf type [%s] not struct", cfV.Type())
	}
	for i := 0; i < cfV.NumField(); i++ {
		field := cfV.Field(i)
		if !field.CanInterface() || !field.CanSet() {
			continue
		}
		key := keyName(cfV.Type().Field(i))
		if v, found := data[key]; found {
			if err := setField(field, key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setField(field reflect.Value, key string, v interface{}) error {
	mismatch := func() error {
		return errors.Errorf("field '%s' type mismatch, got [%s], expected [%s]", key, reflect.TypeOf(v), field.Type())
	}

	if field.Type() == durationType {
		switch dv := v.(type) {
		case string:
			d, err := time.ParseDuration(dv)
			if err != nil {
				return errors.Wrapf(err, "field '%s' invalid duration", key)
			}
			field.SetInt(int64(d))
		case int:
			field.SetInt(int64(time.Duration(dv) * time.Millisecond))
		default:
			return mismatch()
		}
		return nil
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int64:
		switch iv := v.(type) {
		case int:
			field.SetInt(int64(iv))
		case int64:
			field.SetInt(iv)
		default:
			return mismatch()
		}

	case reflect.Float64:
		switch fv := v.(type) {
		case float64:
			field.SetFloat(fv)
		case int:
			field.SetFloat(float64(fv))
		default:
			return mismatch()
		}

	case reflect.Bool:
		if b, ok := v.(bool); ok {
			field.SetBool(b)
		} else {
			return mismatch()
		}

	case reflect.String:
		if s, ok := v.(string); ok {
			field.SetString(s)
		} else {
			return mismatch()
		}

	default:
		return errors.Errorf("unsupported field type [%s]", field.Type())
	}
	return nil
}

func Dump(label string, cf interface{}) string {
	cfV := reflect.ValueOf(cf)
	if cfV.Kind() == reflect.Ptr {
		cfV = cfV.Elem()
	}
	if cfV.Kind() != reflect.Struct {
		return ""
	}
	out := label + " {\n"
	format := fmt.Sprintf("\t%%-%ds %%v\n", maxKeyLength(cfV))
	for i := 0; i < cfV.NumField(); i++ {
		if cfV.Field(i).CanInterface() {
			key := keyName(cfV.Type().Field(i))
			out += fmt.Sprintf(format, key, cfV.Field(i).Interface())
		}
	}
	out += "}\n"
	return out
}

func keyName(v reflect.StructField) string {
	key := v.Name
	tag := v.Tag.Get("cf")
	if tag != "" {
		key = tag
	}
	return key
}

func maxKeyLength(cfV reflect.Value) int {
	maxKeyLength := 0
	for i := 0; i < cfV.NumField(); i++ {
		if !cfV.Field(i).CanInterface() {
			continue
		}
		key := keyName(cfV.Type().Field(i))
		keyLength := len(key)
		if keyLength > maxKeyLength {
			maxKeyLength = keyLength
		}
	}
	return maxKeyLength
}
