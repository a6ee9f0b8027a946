package registry

// Default is the process-wide registry used by the package-level functions.
var Default = New()

// Create adds a set to Default.
func Create(fn HashFunc) ID { return Default.Create(fn) }

// Delete removes a set from Default.
func Delete(id ID) { Default.Delete(id) }

// Size returns the size of a set in Default.
func Size(id ID) int { return Default.Size(id) }

// Insert adds seq to a set in Default.
func Insert(id ID, seq []uint64) bool { return Default.Insert(id, seq) }

// Remove deletes seq from a set in Default.
func Remove(id ID, seq []uint64) bool { return Default.Remove(id, seq) }

// Clear empties a set in Default.
func Clear(id ID) { Default.Clear(id) }

// Test reports whether seq is in a set in Default.
func Test(id ID, seq []uint64) bool { return Default.Test(id, seq) }
