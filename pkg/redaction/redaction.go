// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

// Package redaction masks personally identifiable information before it is
// written to logs.
package redaction

import "strings"

// RedactEmail masks the local part of an email address, keeping the first
// character and the domain so that log lines remain correlatable.
func RedactEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	local := email[:at]
	domain := email[at:]

	if len(local) == 1 {
		return "*" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + domain
}
