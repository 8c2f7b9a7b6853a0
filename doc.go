// Package datainfo implements validated, transportable data types with
// JSON data descriptors.
//
// A DataType pairs a value space (booleans, bounded integers and floats,
// scaled integers, enumerations, strings, byte strings, arrays, tuples,
// structs, limit pairs and commands) with the conversions a protocol
// endpoint needs: coercion of tolerated representations, bound
// validation, transport encoding and decoding, and human-readable
// formatting.
//
// # Quick Start
//
//	dt, err := datainfo.NewFloatRange(datainfo.Props{
//	    "min": 0, "max": 100, "unit": "K",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	v, err := dt.Validate(99.7)        // 99.7
//	fmt.Println(dt.FormatValue(v))     // 99.7 K
//	fmt.Println(dt.ExportDatatype())   // map[max:100 min:0 type:double unit:K]
//
//	same, err := datainfo.Get(dt.ExportDatatype())
//
// # Data Descriptors
//
// ExportDatatype renders a type as a DataInfo: a JSON-ready mapping with
// a "type" key naming the kind and further keys for its properties.
// Get builds the matching type back from such a mapping. Properties at
// their default are omitted, unknown descriptor keys are ignored for
// forward compatibility, and two types describe the same value space
// exactly when their canonical descriptors are equal (see Equal).
//
// # Life Cycle
//
// Constructors return sealed types whose properties can no longer
// change. Copy returns an open clone that accepts SetProperty and
// SetMainUnit until CheckProperties seals it again, so a type can serve
// as a template that is specialized per deployment.
//
// # Compatibility
//
// Compatible reports whether one type can stand in for another: every
// value the first type accepts must be accepted by the second. The check
// is directional and structural, descending into compound types.
//
// # Concurrency
//
// Sealed types are safe for concurrent use. Open clones require external
// synchronization until sealed.
//
// # Subpackages
//
//   - enum: named integer enumerations with stable member identity
//   - canonicaljson: RFC 8785 (JCS) deterministic JSON serialization
package datainfo
