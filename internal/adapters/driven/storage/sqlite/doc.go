// Package sqlite stores docchat's session snapshot in a SQLite file,
// ~/.docchat/data/docchat.db by default.
//
// The driver is modernc.org/sqlite, so no cgo is needed. The schema is a
// single kv_store table of named text slots, created by the scripts in
// migrations/; the snapshot is the JSON document under SessionKey and the
// active document id sits under ActiveKey.
package sqlite
