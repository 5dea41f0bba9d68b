package xos

import "os"

// RemoveIfExists removes the named file. It reports whether a file was
// removed; a missing file is not an error.
func RemoveIfExists(filename string) (bool, error) {
	if err := os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Exists reports whether the named path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
