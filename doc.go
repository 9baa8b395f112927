// Package late provides statics that are initialized at runtime and then
// behave like ordinary package-level variables.
//
// A Static is declared up front, typically as a package-level var, and
// assigned exactly once later, when the information needed to build the value
// becomes available: parsed configuration, discovered hardware, injected
// dependencies.
//
//	var store late.Static[Store]
//
//	func main() {
//		store.Assign(openStore())
//		fmt.Println(store.Get().Name)
//	}
//
// Responsibilities:
//   - Static[T] is the unsynchronized core: fixed size, no allocation, no
//     locks or atomics. Callers guarantee a happens-before edge between
//     Assign and any access from another goroutine.
//   - Guarded[T] trades that proof obligation for an internal lock.
//   - Traced[T] wraps a Static and emits events through pkg/lifecycle so
//     assignment order can be observed and debugged.
//   - Registry names a set of slots so boot code can verify everything was
//     assigned before serving.
//   - pkg/hydrate decodes raw config payloads (JSON or YAML) and assigns
//     them into statics in one validated step.
//
// Misuse (assigning twice, clearing or dereferencing an empty slot) is a
// programming error, not an environmental failure. Every violation panics
// with one of the package's sentinel errors instead of returning an error
// value; recovering and carrying on would mask an initialization-order bug.
package late
