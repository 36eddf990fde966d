// Package storage provisions output directories and writes downloaded images.
//
// EnsureDir creates a directory tree when missing and logs only when it did
// so. Manager.SaveImage writes through a temporary file and an atomic rename,
// overwriting any file already at the destination.
//
// Usage:
//
//	manager, err := storage.NewManager("downloads/reviews", log)
//	if err != nil {
//	    return err
//	}
//	n, err := manager.SaveImage(bytes.NewReader(body), "iap_640x640.1.jpg")
package storage
