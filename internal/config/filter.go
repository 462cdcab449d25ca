package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"firestige.xyz/ospfdump/internal/core/decoder"
)

// EtherType is a link-layer type code as written in configuration: a number,
// a hex string ("0x0800") or a printed protocol name ("ip", "arp", "802.1Q").
type EtherType uint16

// FilterConfig is the ether-type allow list. An empty list accepts every frame.
type FilterConfig struct {
	EtherTypes []EtherType `mapstructure:"ether_types"`
}

// Values returns the allow list as plain type codes.
func (f FilterConfig) Values() []uint16 {
	out := make([]uint16, len(f.EtherTypes))
	for i, t := range f.EtherTypes {
		out[i] = uint16(t)
	}
	return out
}

// ParseEtherType parses one ether type in any of the accepted spellings.
func ParseEtherType(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if v, ok := decoder.LookupEtherType(s); ok {
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown ether type %q", s)
	}
	return uint16(v), nil
}

// etherTypeHookFunc converts strings and numbers into EtherType values.
func etherTypeHookFunc() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(EtherType(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != target {
			return data, nil
		}
		v := reflect.ValueOf(data)
		switch v.Kind() {
		case reflect.String:
			et, err := ParseEtherType(v.String())
			return EtherType(et), err
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if n := v.Int(); n < 0 || n > 0xffff {
				return nil, fmt.Errorf("ether type %d out of range", n)
			}
			return EtherType(v.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if n := v.Uint(); n > 0xffff {
				return nil, fmt.Errorf("ether type %d out of range", n)
			}
			return EtherType(v.Uint()), nil
		case reflect.Float32, reflect.Float64:
			n := v.Float()
			if n < 0 || n > 0xffff || n != float64(int(n)) {
				return nil, fmt.Errorf("ether type %v is not a 16-bit integer", n)
			}
			return EtherType(int(n)), nil
		}
		return data, nil
	}
}

// decodeFilter decodes the raw filter.ether_types value. It accepts a YAML
// list or a comma-separated string (the form environment variables take).
func decodeFilter(raw interface{}) (FilterConfig, error) {
	var out FilterConfig
	if raw == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			etherTypeHookFunc(),
		),
		Result: &out.EtherTypes,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, err
	}
	return out, nil
}
