package blackwidow

import "fmt"

var (
	ErrEmptyKey            = addPrefix("the key is empty")
	ErrBigValue            = addPrefix("value is too big")
	ErrKeyNotFound         = addPrefix("no record for key")
	ErrColumnFamilyExists  = addPrefix("column family already exists")
	ErrColumnFamilyMissing = addPrefix("no such column family")
	ErrEngineClosed        = addPrefix("engine is closed")
)

func addPrefix(errStr string) error {
	return fmt.Errorf("blackwidow: %s", errStr)
}
