package main

import "errors"

var (
	errMalformed     = errors.New("malformed message")
	errInvalidConfig = errors.New("invalid config")
)
