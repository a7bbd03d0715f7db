/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count using binary (IEC) units.
func humanReadableSize(bytes int64) string {
	const unit int64 = 1024

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	exp := -1
	for value >= float64(unit) && exp < 5 {
		value /= float64(unit)
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", value, "KMGTPE"[exp])
}
