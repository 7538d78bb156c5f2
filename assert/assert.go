package assert

import "github.com/oomph-ac/kinematic/oerror"

// IsTrue panics with a formatted error if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
