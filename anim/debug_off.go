//go:build !debug

package anim

const concurrencyCheckDefault = false
