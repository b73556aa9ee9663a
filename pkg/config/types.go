package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/treeverse/git-recycle-bin/pkg/rberrors"
)

// Strings is a []string that mapstructure can deserialize from a single comma separated
// string or from a list of strings.
type Strings []string

var (
	ourStringsType  = reflect.TypeOf(Strings{})
	stringType      = reflect.TypeOf("")
	stringSliceType = reflect.TypeOf([]string{})
	boolType        = reflect.TypeOf(true)

	ErrInvalidBool = fmt.Errorf("%w: boolean value expected", rberrors.ErrInvalidInput)
)

// DecodeStrings is a mapstructure.DecodeHookFuncValue that decodes a single string value or a
// slice of strings into Strings.
func DecodeStrings(fromValue reflect.Value, toValue reflect.Value) (interface{}, error) {
	if toValue.Type() != ourStringsType {
		return fromValue.Interface(), nil
	}
	if fromValue.Type() == stringSliceType {
		return Strings(fromValue.Interface().([]string)), nil
	}
	if fromValue.Type() == stringType {
		if fromValue.String() == "" {
			return Strings{}, nil
		}
		return Strings(strings.Split(fromValue.String(), ",")), nil
	}
	return fromValue.Interface(), nil
}

// ParseBool accepts yes/no, y/n, true/false, t/f and 1/0 in any case
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1":
		return true, nil
	case "no", "n", "false", "f", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q: %w", s, ErrInvalidBool)
	}
}

// DecodeBool is a mapstructure.DecodeHookFuncValue that decodes the strings ParseBool accepts
// into bool. Environment values always arrive as strings.
func DecodeBool(fromValue reflect.Value, toValue reflect.Value) (interface{}, error) {
	if toValue.Type() != boolType || fromValue.Type() != stringType {
		return fromValue.Interface(), nil
	}
	return ParseBool(fromValue.String())
}
