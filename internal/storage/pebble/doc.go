// Package pebblestore provides a thin wrapper around Pebble with an fsync
// policy and prefix scans. It backs the plan store.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data/store",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	_ = db.Set([]byte("plan/crlite/k"), []byte("v"))
//	v, _ := db.Get([]byte("plan/crlite/k"))
//	_ = db.ScanPrefix([]byte("plan/crlite/"), func(k, v []byte) error { return nil })
package pebblestore
