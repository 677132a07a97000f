package utils

import "errors"

// ErrorRecordNotFound is the generic lookup miss the resource validators
// return; model code maps it to an entity-specific message.
var ErrorRecordNotFound = errors.New("record not found")

// ErrorPanic escalates an unrecoverable setup error.
func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
