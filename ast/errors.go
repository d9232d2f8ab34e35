package ast

import "fmt"

// astError is a plain error type for grammar-construction failures and
// parse-time constructor errors, mirroring peg's own pegError rather than
// wrapping it - constructor errors originate in this package, not in peg.
type astError struct {
	value string
}

func errorf(format string, v ...interface{}) error {
	return &astError{fmt.Sprintf(format, v...)}
}

func (err *astError) Error() string {
	return "ast: " + err.value
}
