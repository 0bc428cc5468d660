package pluginject

import (
	"fmt"
	"reflect"
	"strings"
)

// Key identifies a requested capability: a type plus an optional qualifier
// name. It is the sole lookup identity for bindings, defaults and the
// singleton cache. Keys are comparable values, so they can be used directly
// as map keys.
type Key struct {
	Type      reflect.Type
	Qualifier string
}

// KeyFor builds the unqualified Key for the type T.
func KeyFor[T any]() Key {
	return Key{Type: reflect.TypeFor[T]()}
}

// NamedKeyFor builds a qualified Key for the type T. Qualified and
// unqualified Keys of the same type are completely independent: binding one
// never satisfies requests for the other.
func NamedKeyFor[T any](name string) Key {
	return Key{Type: reflect.TypeFor[T](), Qualifier: name}
}

func (k Key) String() string {
	if k.Qualifier == "" {
		return fmt.Sprintf("%v", k.Type)
	}
	return fmt.Sprintf("%v[%q]", k.Type, k.Qualifier)
}

// Qualified declares a qualified dependency in a constructor signature.
// The phantom type parameter Q carries the qualifier: its type name is the
// qualifier string, so a parameter of type Qualified[Thing, replica] resolves
// the Key for Thing with qualifier "replica". The resolved value is delivered
// through the Value field.
//
//	type replica struct{}
//
//	func NewReader(db Qualified[*sql.DB, replica]) *Reader {
//		return &Reader{db: db.Value}
//	}
type Qualified[T any, Q any] struct {
	Value T
}

// ElemType reports the wrapped dependency type. It is called through
// reflection during constructor analysis.
func (q Qualified[T, Q]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// QualifierName reports the qualifier carried by the phantom type parameter.
// It is called through reflection during constructor analysis.
func (q Qualified[T, Q]) QualifierName() string {
	qualifierType := reflect.TypeFor[Q]()
	if qualifierType.Name() != "" {
		return qualifierType.Name()
	}
	return qualifierType.String()
}

const qualifiedTypePrefix = "pluginject.Qualified["

// qualifiedKey inspects a constructor parameter type. If it is an
// instantiation of Qualified, the Key it declares is recovered by calling the
// ElemType and QualifierName methods on a zero value of the parameter type.
func qualifiedKey(parameterType reflect.Type) (Key, bool) {
	if parameterType.Kind() != reflect.Struct || !strings.HasPrefix(parameterType.String(), qualifiedTypePrefix) {
		return Key{}, false
	}

	elemMethod, found := parameterType.MethodByName("ElemType")
	if !found {
		return Key{}, false
	}
	nameMethod, found := parameterType.MethodByName("QualifierName")
	if !found {
		return Key{}, false
	}

	zeroValue := reflect.New(parameterType).Elem()
	elemType := elemMethod.Func.Call([]reflect.Value{zeroValue})[0].Interface().(reflect.Type)
	qualifier := nameMethod.Func.Call([]reflect.Value{zeroValue})[0].Interface().(string)

	return Key{Type: elemType, Qualifier: qualifier}, true
}
