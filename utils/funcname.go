// Package utils holds small reflection helpers shared by the options and the
// descriptor packages.
package utils

import (
	"path"
	"reflect"
	"runtime"
	"strings"
)

// FuncName splits the runtime name of the function fn into the alias of its
// package and the name inside the package:
//
//	"example.com/pkg/model.NewUser" -> "model", "NewUser"
//
// Both are empty when fn is not a function or its name is unknown.
func FuncName(fn reflect.Value) (alias, name string) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return "", ""
	}

	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", ""
	}

	_, last := path.Split(f.Name())

	alias, name, found := strings.Cut(last, ".")
	if !found {
		return "", alias
	}

	return alias, name
}

// QualifiedName is FuncName joined with a dot.
func QualifiedName(fn reflect.Value) string {
	alias, name := FuncName(fn)
	if alias == "" {
		return name
	}

	return alias + "." + name
}
