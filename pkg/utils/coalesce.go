// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package utils

// CoalesceString returns the first non-empty string from the given arguments.
// It is the single place where ordered field-fallback rules (e.g. prefer
// "user_id" over "id" in Zoom participant payloads) are evaluated.
func CoalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
