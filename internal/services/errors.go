package services

import "errors"

// ErrNoReportsFound is returned when input discovery yields no report workbooks.
var ErrNoReportsFound = errors.New("no report files found")
