package helper

import (
	"strings"

	om "github.com/cevaris/ordered_map"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

// OrderedMapKeysToStringSlice returns the keys of om in declaration order.
func OrderedMapKeysToStringSlice(log logger.Logger, o *om.OrderedMap) []string {
	retval := make([]string, 0, o.Len())
	iter := o.IterFunc()
	if iter == nil {
		log.Panic("failed to get iterFunc in OrderedMapKeysToStringSlice()")
	}
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Key.(string))
	}
	return retval
}

// OrderedMapValuesToStringSlice returns the values of om in declaration order.
// All values are expected to be of type string.
func OrderedMapValuesToStringSlice(log logger.Logger, o *om.OrderedMap) []string {
	retval := make([]string, 0, o.Len())
	iter := o.IterFunc()
	if iter == nil {
		log.Panic("failed to get iterFunc in OrderedMapValuesToStringSlice()")
	}
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(string))
	}
	return retval
}

// StringsToCsv joins the strings by ","
func StringsToCsv(s []string) string {
	retval := strings.Join(s, ",")
	return retval
}

// PrefixStrings returns a copy of s with each value prefixed by p.
func PrefixStrings(s []string, p string) []string {
	retval := make([]string, len(s), len(s))
	for idx, v := range s {
		retval[idx] = p + v
	}
	return retval
}
