package main

import "errors"

var (
	errMissingAuthHeader = errors.New("authorization header is missing")
	errInvalidAuthHeader = errors.New("invalid authorization header")
)
