package wire

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Inspector visits the members of an object by name. The generated
// ShowMembers methods call Inspect once per data member, transient members
// included, passing the address of the member.
type Inspector interface {
	Inspect(class, member string, addr any)
}

// InspectorFunc adapts a function to the Inspector interface.
type InspectorFunc func(class, member string, addr any)

func (f InspectorFunc) Inspect(class, member string, addr any) { f(class, member, addr) }

// Directory receives objects whose class asks to be attached to the current
// directory on creation.
type Directory interface {
	Append(obj any, name string)
}

// MergeInfo carries the options of a merge operation to the merge hooks.
type MergeInfo struct {
	Options string
	// Output receives objects created by the merge, if any.
	Output Directory
}

// ShowMembers walks the members of obj through insp using the member
// layout of info. Used for classes whose introspection was not generated.
func ShowMembers(info *ClassInfo, obj any, insp Inspector) error {
	rv, err := structValue(info, obj)
	if err != nil {
		return err
	}
	for _, m := range info.Members {
		fv, ok := fieldValue(rv, m.Name)
		if !ok {
			continue
		}
		insp.Inspect(info.Name, m.Name, fv.Addr().Interface())
	}
	return nil
}

func structValue(info *ClassInfo, obj any) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("wire: %s: want non-nil struct pointer, got %T", info.Name, obj)
	}
	return rv.Elem(), nil
}

// fieldValue returns an addressable, settable view of the named direct field
// of rv, unexported fields included.
func fieldValue(rv reflect.Value, name string) (reflect.Value, bool) {
	sf, ok := rv.Type().FieldByName(name)
	if !ok || len(sf.Index) != 1 {
		return reflect.Value{}, false
	}
	ptr := unsafe.Add(unsafe.Pointer(rv.UnsafeAddr()), sf.Offset)
	return reflect.NewAt(sf.Type, ptr).Elem(), true
}
