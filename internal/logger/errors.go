package logger

import (
	"errors"
)

var (
	// ErrServiceNameIsEmpty error if the service name is empty.
	ErrServiceNameIsEmpty = errors.New("log config serviceName can not be empty")

	// ErrAppNameIsEmpty error if the app name is empty.
	ErrAppNameIsEmpty = errors.New("log config appName can not be empty")
)
