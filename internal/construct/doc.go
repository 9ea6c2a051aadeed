// Package construct builds destination structs from resolved field values.
//
// Three strategies are available, selected by the class type of the
// destination:
//
//   - Setters allocates the zero value and sets each field through its setter
//     or, when exported, directly.
//   - Constructor calls the registered constructor, resolving every parameter
//     by its destination field name. When the parameter names are unknown the
//     fields are passed in declaration order first, then by name with zero
//     values for the unnamed parameters.
//   - Builder populates the builder returned by NewBuilder and calls its Build
//     method.
package construct
