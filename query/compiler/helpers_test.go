package compiler_test

import "strconv"

func itoa(n int) string { return strconv.Itoa(n) }

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }
