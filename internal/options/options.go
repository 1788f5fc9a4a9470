// Package options implements the extended options passed to fitsthaw with
// -o key=value. Option keys are namespaced (e.g. "s3.endpoint") and applied
// to configuration structs via the `option` struct tag.
package options

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fitsthaw/fitsthaw/internal/errors"
)

// Options holds options in the form key=value.
type Options map[string]string

// Help contains information about an option.
type Help struct {
	Namespace string
	Name      string
	Text      string
}

var opts []Help

// Register allows registering options so that they can be listed with List.
func Register(ns string, cfg interface{}) {
	v := reflect.Indirect(reflect.ValueOf(cfg))

	for i := 0; i < v.NumField(); i++ {
		f := v.Type().Field(i)

		h := Help{
			Namespace: ns,
			Name:      f.Tag.Get("option"),
			Text:      f.Tag.Get("help"),
		}

		if h.Name == "" {
			continue
		}

		opts = append(opts, h)
	}

	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Namespace == opts[j].Namespace {
			return opts[i].Name < opts[j].Name
		}
		return opts[i].Namespace < opts[j].Namespace
	})
}

// List returns a list of all registered options (using Register()).
func List() []Help {
	list := make([]Help, len(opts))
	copy(list, opts)
	return list
}

// splitKeyValue splits at the first equals (=) sign.
func splitKeyValue(s string) (key string, value string) {
	key, value, _ = strings.Cut(s, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	return key, value
}

// Parse takes a slice of key=value pairs and returns an Options type.
// The key may include namespaces, separated by dots. Example: "s3.endpoint".
// Keys are converted to lower-case.
func Parse(in []string) (Options, error) {
	opts := make(Options, len(in))

	for _, opt := range in {
		key, value := splitKeyValue(opt)

		if key == "" {
			return Options{}, errors.Fatalf("empty key is not a valid option")
		}

		if v, ok := opts[key]; ok && v != value {
			return Options{}, errors.Fatalf("key %q present more than once", key)
		}

		opts[key] = value
	}

	return opts, nil
}

// Extract returns an Options type with all keys in namespace ns, which is
// also stripped from the keys. ns must end with a dot.
func (o Options) Extract(ns string) Options {
	l := len(ns)
	if ns[l-1] != '.' {
		ns += "."
		l++
	}

	opts := make(Options)

	for k, v := range o {
		if !strings.HasPrefix(k, ns) {
			continue
		}

		opts[k[l:]] = v
	}

	return opts
}

// Apply sets the options on dst via reflection, using the struct tag
// `option`. The namespace argument (ns) is only used for error messages.
func (o Options) Apply(ns string, dst interface{}) error {
	v := reflect.ValueOf(dst).Elem()

	fields := make(map[string]reflect.StructField)

	for i := 0; i < v.NumField(); i++ {
		f := v.Type().Field(i)
		tag := f.Tag.Get("option")

		if tag == "" {
			continue
		}

		if _, ok := fields[tag]; ok {
			panic("option tag " + tag + " is not unique in " + v.Type().Name())
		}

		fields[tag] = f
	}

	for key, value := range o {
		field, ok := fields[key]
		if !ok {
			if ns != "" {
				key = ns + "." + key
			}
			return errors.Fatalf("option %v is not known", key)
		}

		i := field.Index[0]
		switch v.Type().Field(i).Type.Name() {
		case "string":
			v.Field(i).SetString(value)

		case "int":
			vi, err := strconv.ParseInt(value, 0, 32)
			if err != nil {
				return err
			}

			v.Field(i).SetInt(vi)

		case "uint":
			vi, err := strconv.ParseUint(value, 0, 32)
			if err != nil {
				return err
			}

			v.Field(i).SetUint(vi)

		case "bool":
			vi, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}

			v.Field(i).SetBool(vi)

		case "Duration":
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}

			v.Field(i).SetInt(int64(d))

		default:
			panic("type " + v.Type().Field(i).Type.Name() + " not handled")
		}
	}

	return nil
}
